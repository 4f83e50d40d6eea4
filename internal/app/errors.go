package app

import (
	"errors"
	"fmt"
)

var (
	// ErrQuit ends Run without an error.
	ErrQuit = errors.New("quit requested")

	ErrAlreadyRunning = errors.New("application already running")

	// ErrReadOnly is reported in the status line when an edit is refused.
	ErrReadOnly = errors.New("document is read-only")
)

// OperationError ties a failure to the operation and store key it hit.
type OperationError struct {
	Op  string // "load", "save", "import", ...
	Key string
	Err error
}

// NewOperationError wraps err for op on key.
func NewOperationError(op, key string, err error) *OperationError {
	return &OperationError{Op: op, Key: key, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the same wrapper or anything the wrapped error matches.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// ComponentError reports a failing subsystem: the store, a plugin, the
// terminal backend.
type ComponentError struct {
	Component string
	Action    string
	Err       error
}

// NewComponentError wraps err for component.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{Component: component, Action: action, Err: err}
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Component
	if e.Action != "" {
		msg += ": " + e.Action
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the same wrapper or anything the wrapped error matches.
func (e *ComponentError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*ComponentError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// InitError is a startup failure. The CLI exits with status 1 on it.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return "init " + e.Component
	}
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
