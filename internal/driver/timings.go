package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"bondrewd/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// WriteTimings prints the phases collected in timer for a `--timings` run:
// the Summary table, or one JSON object when asJSON is set.
func WriteTimings(w io.Writer, kind, path string, timer *observ.Timer, asJSON bool) error {
	if timer == nil {
		return nil
	}
	report := timer.Report()
	if !asJSON {
		header := kind
		if path != "" {
			header = fmt.Sprintf("%s %s", kind, path)
		}
		_, err := fmt.Fprintf(w, "%s\n%s", header, timer.Summary())
		return err
	}
	if kind == "" {
		kind = "pipeline"
	}
	return json.NewEncoder(w).Encode(timingPayload{
		Kind:    kind,
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}
