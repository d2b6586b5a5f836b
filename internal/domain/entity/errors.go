package entity

import "fmt"

// ValidationError describes one malformed input record. Validation errors
// are collected into diagnostics slices alongside results; they never abort
// a run.
type ValidationError struct {
	Index  int    `json:"index"`
	Key    string `json:"key,omitempty"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("record %d (%s): %s: %s", e.Index, e.Key, e.Field, e.Reason)
	}
	return fmt.Sprintf("record %d: %s: %s", e.Index, e.Field, e.Reason)
}

// ConfigurationError describes an invalid analysis setting. Raised before
// any data is fetched or computed, and always fatal.
type ConfigurationError struct {
	Setting string
	Value   interface{}
	Reason  string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Setting, e.Value, e.Reason)
}
