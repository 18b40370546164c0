package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/bmicount/internal/ir"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Data failure (bad batch, failed scenarios, non-deterministic replay, etc.)
	ExitCommandError = 2 // Command error (invalid flags, unreadable files, database errors, etc.)
)

// Error codes for failures that are not batch errors.
const (
	CodeCommandError = "E_COMMAND"
	CodeTestFailed   = "E_TEST_FAILED"
	CodeReplayDiff   = "E_REPLAY_DIFF"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// reported is set once the error has been written through an
	// OutputFormatter, so main does not print it twice.
	reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// Reported reports whether the error was already written to the user.
func (e *ExitError) Reported() bool {
	return e.reported
}

// reportedExitError is NewExitError for failures whose output has already
// been written.
func reportedExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message, reported: true}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // ir error code or E_* code
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// BatchErrorDetails locates a batch error inside the input.
type BatchErrorDetails struct {
	Record int    `json:"record"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt.Println, so types that implement
// fmt.Stringer control their own text rendering.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %+v\n", details)
	}
	return nil
}

// Fail reports err and returns it as an ExitError. Batch errors (ir.Error)
// exit with ExitFailure and keep their error code; anything else is a
// command error.
func (f *OutputFormatter) Fail(message string, err error) error {
	var e *ir.Error
	if errors.As(err, &e) {
		var details any
		if e.Index >= 0 || e.Value != nil {
			d := BatchErrorDetails{Record: e.Index, Field: e.Field}
			if e.Value != nil {
				d.Value = e.Value.String()
			}
			if e.Code == ir.ErrCodeDatatypeMismatch {
				d.Kind = e.Kind.String()
			}
			details = d
		}
		_ = f.Error(string(e.Code), e.Error(), details)
		return &ExitError{Code: ExitFailure, Message: message, Err: err, reported: true}
	}

	_ = f.Error(CodeCommandError, fmt.Sprintf("%s: %v", message, err), nil)
	return &ExitError{Code: ExitCommandError, Message: message, Err: err, reported: true}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
