package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/labsim/internal/dynamo"
)

// Trace is a recorded run as written by WriteJSON.
type Trace struct {
	Demo     string             `json:"demo"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Labels   []string           `json:"labels"`
	Times    []float64          `json:"times"`
	Samples  [][]float64        `json:"samples"`
	Metrics  map[string]float64 `json:"metrics"`
	Errors   []string           `json:"errors,omitempty"`
}

func NewTrace(cfg dynamo.Config, result *dynamo.Result) Trace {
	t := Trace{
		Demo:     result.Scene,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Steps:    result.StepsTaken,
		Labels:   result.Labels,
		Times:    result.Times,
		Samples:  result.Samples,
		Metrics:  result.Metrics,
	}
	for _, err := range result.Errors {
		t.Errors = append(t.Errors, err.Error())
	}
	return t
}

func WriteJSON(w io.Writer, t Trace) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(t)
}

// WriteCSV writes one row per recorded frame: time followed by the samples,
// under a header of the sample labels.
func WriteCSV(w io.Writer, result *dynamo.Result) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, result.Labels...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, samples := range result.Samples {
		row := make([]string, 0, len(samples)+1)
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for _, v := range samples {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
