// errors.go - Error types for clip loading and dialogue scripts

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import "fmt"

// ClipError provides detailed error context for sample clip operations
type ClipError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *ClipError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("clip %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("clip %s failed: %s", e.Operation, e.Details)
}

func (e *ClipError) Unwrap() error {
	return e.Err
}

// ScriptError reports a dialogue script that failed to load or run
type ScriptError struct {
	Script  string // Script name or path
	Details string
	Err     error
}

func (e *ScriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dialogue script %s: %s: %v", e.Script, e.Details, e.Err)
	}
	return fmt.Sprintf("dialogue script %s: %s", e.Script, e.Details)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
