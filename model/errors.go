package model

import "fmt"

// FormatError means the input is not a recognized chart encoding, or is
// malformed beyond the documented recoverable heuristics. It aborts the
// current chart only.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "bad chart format: " + e.Reason
}

func Formatf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// ConsistencyError means an invariant the pipeline assumes always holds was
// violated mid-decode. It aborts the current chart only.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return "chart inconsistency: " + e.Reason
}

func Inconsistentf(format string, args ...any) error {
	return &ConsistencyError{Reason: fmt.Sprintf(format, args...)}
}
