// Package errs defines the error variants a notification run can fail with.
// Each variant carries the offending input as structured context so callers
// can inspect it with errors.As instead of matching on message text.
package errs

import (
	"errors"
	"fmt"
)

// ConfigError represents missing configuration or a malformed ownership file line.
type ConfigError struct {
	Reason   string // Short description, e.g. "line missing file"
	Variable string // Environment variable name, for missing configuration
	File     string // Ownership file name, for malformed lines
	Line     string // Raw line as read from the ownership file
	LineNum  int
}

func (e *ConfigError) Error() string {
	switch {
	case e.File != "":
		return fmt.Sprintf("%s file malformed (line %d), %s: %q", e.File, e.LineNum, e.Reason, e.Line)
	case e.Variable != "":
		return fmt.Sprintf("missing %s environment variable", e.Variable)
	default:
		return e.Reason
	}
}

// NewMissingVariable creates a ConfigError for a required environment variable.
func NewMissingVariable(name string) *ConfigError {
	return &ConfigError{Reason: "missing environment variable", Variable: name}
}

// NewMalformedLine creates a ConfigError for an ownership file line.
func NewMalformedLine(file string, lineNum int, reason, line string) *ConfigError {
	return &ConfigError{Reason: reason, File: file, Line: line, LineNum: lineNum}
}

// EventDataError represents an event payload that cannot be used.
type EventDataError struct {
	Reason string
	Path   string
	Err    error
}

func (e *EventDataError) Error() string {
	msg := "event data " + e.Reason
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EventDataError) Unwrap() error {
	return e.Err
}

// TransportError represents a failed call to the code-hosting API.
// StatusCode is zero when the request never produced a response.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Op
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": returned status %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsConfig reports whether err is or wraps a ConfigError.
func IsConfig(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsEventData reports whether err is or wraps an EventDataError.
func IsEventData(err error) bool {
	var target *EventDataError
	return errors.As(err, &target)
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}
