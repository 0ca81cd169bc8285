package model

import "fmt"

// Diagnostic is a recoverable decode warning: a recognized-but-unmodeled
// construct that was dropped, or a heuristic correction that was applied.
type Diagnostic struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Diagnostics accumulates warnings for a single decode. Each decode owns its
// own value, so concurrent decodes never interleave.
type Diagnostics struct {
	Warnings []Diagnostic `json:"warnings,omitempty"`
}

func (d *Diagnostics) Warnf(stage string, format string, args ...any) {
	if d == nil {
		return
	}
	d.Warnings = append(d.Warnings, Diagnostic{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
	})
}
