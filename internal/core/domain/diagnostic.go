package domain

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevError is for error diagnostics.
	SevError
)

// String returns a human-readable name for the severity.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Diagnostic is a structured message surfaced to the build host alongside
// the rewrite result.
type Diagnostic struct {
	Severity Severity
	Unit     string
	Message  string
}

// Diagnostics accumulates diagnostics during one pipeline invocation.
// The transformation step appends to it; the orchestrator drains it into
// the RewriteResult. It is not safe for concurrent use; each invocation
// owns its own sink.
type Diagnostics struct {
	unit  string
	items []Diagnostic
}

// NewDiagnostics creates a sink for the given unit name.
func NewDiagnostics(unit string) *Diagnostics {
	return &Diagnostics{unit: unit}
}

// Add appends a diagnostic with the given severity.
func (d *Diagnostics) Add(sev Severity, msg string) {
	d.items = append(d.items, Diagnostic{Severity: sev, Unit: d.unit, Message: msg})
}

// Infof appends an informational diagnostic.
func (d *Diagnostics) Infof(format string, args ...any) {
	d.Add(SevInfo, fmt.Sprintf(format, args...))
}

// Warnf appends a warning diagnostic.
func (d *Diagnostics) Warnf(format string, args ...any) {
	d.Add(SevWarning, fmt.Sprintf(format, args...))
}

// Errorf appends an error diagnostic.
func (d *Diagnostics) Errorf(format string, args ...any) {
	d.Add(SevError, fmt.Sprintf(format, args...))
}

// HasErrors reports whether at least one error diagnostic was added.
func (d *Diagnostics) HasErrors() bool {
	for i := range d.items {
		if d.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// FirstError returns the first error diagnostic, if any.
func (d *Diagnostics) FirstError() (Diagnostic, bool) {
	for i := range d.items {
		if d.items[i].Severity >= SevError {
			return d.items[i], true
		}
	}
	return Diagnostic{}, false
}

// Items returns the accumulated diagnostics. The returned slice points at
// the sink's internal storage and must not be modified.
func (d *Diagnostics) Items() []Diagnostic {
	return d.items
}

// Len returns the number of accumulated diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.items)
}
