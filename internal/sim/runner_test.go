package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/fsm"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// flatTable is a frictionful, gravity-free arena where any throw decays
// below the stop threshold within a second.
func flatTable() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Gravity = 0
	cfg.FrictionCoefficient = 0.9
	cfg.VelocityThreshold = 50
	cfg.Duration = 5
	cfg.Ball.X = 400
	cfg.Ball.Y = 300
	return cfg
}

var _ = Describe("Runner", func() {
	It("completes the grab/release/stop cycle", func() {
		r := sim.New(flatTable())
		script := sim.ThrowScript(0.5, 1.0, 300, 0)

		result, err := r.Run(context.Background(), script)
		Expect(err).NotTo(HaveOccurred())

		Expect(result.FinalState()).To(Equal(fsm.StateIdle))
		Expect(r.Body().Speed()).To(BeZero())

		triggers := make([]fsm.Trigger, len(result.Transitions))
		for i, ch := range result.Transitions {
			triggers[i] = ch.Trigger
		}
		Expect(triggers).To(Equal([]fsm.Trigger{
			fsm.TriggerGrab,
			fsm.TriggerRelease,
			fsm.TriggerVelocityBelowThreshold,
		}))
	})

	It("records every transition with asynchronous notifications", func() {
		cfg := flatTable()
		cfg.AsyncNotifications = true
		cfg.Duration = 2

		// The dispatcher lags behind commits, so repeat the run to
		// shake out snapshots taken before delivery.
		for i := 0; i < 10; i++ {
			r := sim.New(cfg)
			result, err := r.Run(context.Background(), sim.ThrowScript(0.5, 1.0, 300, 0))
			Expect(err).NotTo(HaveOccurred())

			triggers := make([]fsm.Trigger, len(result.Transitions))
			for j, ch := range result.Transitions {
				triggers[j] = ch.Trigger
			}
			Expect(triggers).To(Equal([]fsm.Trigger{
				fsm.TriggerGrab,
				fsm.TriggerRelease,
				fsm.TriggerVelocityBelowThreshold,
			}))
			r.Close()
		}
	})

	It("records one trajectory sample per step plus the initial state", func() {
		cfg := flatTable()
		cfg.Duration = 1
		r := sim.New(cfg)

		result, err := r.Run(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())

		steps := int(cfg.Duration / cfg.Dt)
		Expect(result.StepsTaken).To(Equal(steps))
		Expect(result.Times).To(HaveLen(steps + 1))
		Expect(result.Xs).To(HaveLen(steps + 1))
		Expect(result.States).To(HaveLen(steps + 1))
	})

	It("keeps a held ball where the hand drags it", func() {
		cfg := flatTable()
		cfg.Duration = 2
		r := sim.New(cfg)

		script := sim.Script{
			{At: 0, Kind: sim.ActionGrab},
			{At: 0.5, Kind: sim.ActionDrag, X: 123, Y: 456},
		}
		result, err := r.Run(context.Background(), script)
		Expect(err).NotTo(HaveOccurred())

		Expect(result.FinalState()).To(Equal(fsm.StateHeld))
		Expect(r.Body().X).To(Equal(123.0))
		Expect(r.Body().Y).To(Equal(456.0))
		Expect(r.Body().Moving()).To(BeFalse())
	})

	It("counts wall bounces on a hard throw", func() {
		cfg := flatTable()
		cfg.FrictionCoefficient = 0.995
		cfg.BounceFactor = 0.9
		r := sim.New(cfg)

		result, err := r.Run(context.Background(), sim.ThrowScript(0, 0.1, 2000, 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Bounces).To(BeNumerically(">", 0))
	})

	It("skips illegal script actions without corrupting the run", func() {
		cfg := flatTable()
		cfg.Duration = 1
		r := sim.New(cfg)

		script := sim.Script{{At: 0, Kind: sim.ActionRelease, VX: 500}}
		result, err := r.Run(context.Background(), script)
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Transitions).To(BeEmpty())
		Expect(result.FinalState()).To(Equal(fsm.StateIdle))
		Expect(r.Machine().ValidateStateConsistency()).To(BeTrue())
	})

	It("resets a thrown ball to idle in place", func() {
		cfg := flatTable()
		cfg.Duration = 2
		r := sim.New(cfg)

		script := sim.Script{
			{At: 0, Kind: sim.ActionGrab},
			{At: 0.1, Kind: sim.ActionRelease, VX: 400},
			{At: 0.2, Kind: sim.ActionReset},
		}
		result, err := r.Run(context.Background(), script)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.FinalState()).To(Equal(fsm.StateIdle))
		Expect(r.Body().Moving()).To(BeFalse())
	})

	It("collects registered metrics", func() {
		r := sim.New(flatTable())
		r.AddMetric(metrics.NewPeakSpeed())
		r.AddMetric(metrics.NewBounceCount())
		r.AddMetric(metrics.NewTimeInState(fsm.StateThrown))

		result, err := r.Run(context.Background(), sim.ThrowScript(0, 0.1, 300, 0))
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Metrics).To(HaveKey("peak_speed"))
		Expect(result.Metrics["peak_speed"]).To(BeNumerically("~", 300, 35))
		Expect(result.Metrics).To(HaveKey("bounces"))
		Expect(result.Metrics["time_in_thrown"]).To(BeNumerically(">", 0))
	})

	It("notifies per-tick observers", func() {
		cfg := flatTable()
		cfg.Duration = 0.5
		r := sim.New(cfg)

		ticks := 0
		r.AddObserver(observerFunc(func() { ticks++ }))

		_, err := r.Run(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(Equal(int(cfg.Duration / cfg.Dt)))
	})

	It("stops early on context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := sim.New(flatTable())
		result, err := r.Run(ctx, nil)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.StepsTaken).To(BeZero())
	})
})

type observerFunc func()

func (f observerFunc) OnTick(_ ball.Body, _ fsm.State, _ physics.Result, _ float64) { f() }
