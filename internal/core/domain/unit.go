// Package domain contains the core domain types for reweave.
package domain

// CompiledUnit is one build output submitted for rewriting: the module's
// compiled binary bytes, its debug-symbol bytes, and the absolute paths of
// every module it references. It is immutable for the duration of a run.
type CompiledUnit struct {
	Name           string
	Binary         []byte
	Symbols        []byte
	ReferencePaths []string
}

// Outcome classifies the result of one pipeline invocation.
type Outcome uint8

const (
	// OutcomeNotProcessed means the inclusion filter skipped the unit.
	// No bytes are returned.
	OutcomeNotProcessed Outcome = iota
	// OutcomeRewritten means the unit was transformed and re-serialized.
	OutcomeRewritten
	// OutcomeFailed means the rewrite failed and the original bytes are
	// passed through unchanged.
	OutcomeFailed
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNotProcessed:
		return "not processed"
	case OutcomeRewritten:
		return "rewritten"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// RewriteResult is the terminal result of one pipeline invocation.
// It is constructed once and never mutated afterwards.
//
// For OutcomeRewritten, Binary and Symbols hold the re-serialized module.
// For OutcomeFailed, they hold the original input bytes untouched and
// Diagnostics contains exactly one error diagnostic.
// For OutcomeNotProcessed, both are nil.
type RewriteResult struct {
	Outcome     Outcome
	Binary      []byte
	Symbols     []byte
	Diagnostics []Diagnostic
}
