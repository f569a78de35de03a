// Package exit carries a message, destination and exit code from
// argument parsing and command execution back to main.
package exit

import (
	"fmt"
	"io"
	"os"
)

// Exit codes distinguish the failure stage for scripting callers.
const (
	CodeOK    = 0
	CodeUsage = 1
	CodeParse = 2
	CodeApply = 3
	CodeIO    = 4
)

// Result holds the output destination and exit code for program
// termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a result that writes to stdout and exits zero.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeOK,
		Message:  message,
	}
}

// Failure creates a result that writes to stderr with the given code.
func Failure(code int, message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: code,
		Message:  message,
	}
}

// Failuref creates a stderr result with a formatted message.
func Failuref(code int, format string, a ...any) *Result {
	return Failure(code, fmt.Sprintf(format, a...))
}
