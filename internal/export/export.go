// Package export writes recorded trajectories to JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/ballsim/internal/sim"
)

// Data is the JSON export shape for one run.
type Data struct {
	Preset      string             `json:"preset,omitempty"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Bounces     int                `json:"bounces"`
	Times       []float64          `json:"times"`
	Xs          []float64          `json:"xs"`
	Ys          []float64          `json:"ys"`
	VXs         []float64          `json:"vxs"`
	VYs         []float64          `json:"vys"`
	States      []string           `json:"states"`
	Transitions []TransitionData   `json:"transitions"`
	Metrics     map[string]float64 `json:"metrics"`
}

// TransitionData is one committed transition in the export.
type TransitionData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Trigger string `json:"trigger"`
}

func build(preset string, dt, duration float64, result *sim.Result) Data {
	states := make([]string, len(result.States))
	for i, s := range result.States {
		states[i] = s.String()
	}
	transitions := make([]TransitionData, len(result.Transitions))
	for i, ch := range result.Transitions {
		transitions[i] = TransitionData{
			From:    ch.From.String(),
			To:      ch.To.String(),
			Trigger: ch.Trigger.String(),
		}
	}
	return Data{
		Preset:      preset,
		Dt:          dt,
		Duration:    duration,
		Steps:       result.StepsTaken,
		Bounces:     result.Bounces,
		Times:       result.Times,
		Xs:          result.Xs,
		Ys:          result.Ys,
		VXs:         result.VXs,
		VYs:         result.VYs,
		States:      states,
		Transitions: transitions,
		Metrics:     result.Metrics,
	}
}

// JSON writes the run as indented JSON.
func JSON(w io.Writer, preset string, dt, duration float64, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(build(preset, dt, duration, result))
}

// JSONFile writes the run to a JSON file.
func JSONFile(path, preset string, dt, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return JSON(file, preset, dt, duration, result)
}

// CSV writes one row per recorded sample: time, position, velocity,
// state.
func CSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "x", "y", "vx", "vy", "state"}); err != nil {
		return err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Xs[i], 'f', 6, 64),
			strconv.FormatFloat(result.Ys[i], 'f', 6, 64),
			strconv.FormatFloat(result.VXs[i], 'f', 6, 64),
			strconv.FormatFloat(result.VYs[i], 'f', 6, 64),
			result.States[i].String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFile writes the trajectory to a CSV file.
func CSVFile(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := CSV(file, result); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
