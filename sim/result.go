package sim

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/hall-sim/sim/trace"
)

// Result is the end-of-run report.
type Result struct {
	RunID           string         `yaml:"run_id"`
	Counters        Counters       `yaml:"counters"`
	Official        string         `yaml:"official"`
	Applicants      []string       `yaml:"applicants"` // final status per slot
	Batches         []ReviewBatch  `yaml:"batches"`
	Events          uint64         `yaml:"events"`
	PeakLockHolders int            `yaml:"peak_lock_holders"`
	WallTime        time.Duration  `yaml:"wall_time"`
	EventSummary    *trace.Summary `yaml:"event_summary,omitempty"`
}

// WriteYAML prints the report as a YAML document.
func (r *Result) WriteYAML(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "# Hall Simulation Result"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return enc.Close()
}
