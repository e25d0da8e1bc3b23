package pipeline

import (
	"fmt"

	"github.com/cric-stats/harvest/pkg/models"
)

// ComboResult tracks one (stat kind, format) combination of a run.
type ComboResult struct {
	Kind      models.StatKind
	Format    string
	Extracted int // raw rows written to the artifact
	Loaded    int // records upserted
	Skipped   int // rows rejected or dropped by normalization
	Missing   bool
}

// Result aggregates counts and errors across a whole run. A run always
// completes and reports these even when some inputs are entirely missing.
type Result struct {
	Combos []ComboResult
	Errors []string
}

// Add appends one combination's outcome.
func (r *Result) Add(c ComboResult) {
	r.Combos = append(r.Combos, c)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// TotalLoaded returns the number of records upserted across combinations.
func (r *Result) TotalLoaded() int {
	n := 0
	for _, c := range r.Combos {
		n += c.Loaded
	}
	return n
}

// TotalSkipped returns the number of rows skipped across combinations.
func (r *Result) TotalSkipped() int {
	n := 0
	for _, c := range r.Combos {
		n += c.Skipped
	}
	return n
}

// Summary returns a one-line human-readable roll-up.
func (r *Result) Summary() string {
	return fmt.Sprintf("combinations=%d loaded=%d skipped=%d errors=%d",
		len(r.Combos), r.TotalLoaded(), r.TotalSkipped(), len(r.Errors))
}
