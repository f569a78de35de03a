// Package config parses the jqesque command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jacoelho/jqesque/internal/exit"
)

var (
	ErrNoArguments      = errors.New("no arguments provided")
	ErrNoAssignments    = errors.New("no assignments specified")
	ErrInvalidSeparator = errors.New("separator must be a single character")
	ErrInputConflict    = errors.New("-f and -n are mutually exclusive")
)

// Config represents the complete configuration for the jqesque tool.
type Config struct {
	// InputFile is the document to modify; "" or "-" reads stdin.
	InputFile string
	// OutputFile receives the result; "" writes stdout.
	OutputFile string
	// Empty starts from an empty document instead of reading one.
	Empty bool
	// Separator divides path segments in the assignment strings.
	Separator rune
	// YAML forces YAML output regardless of the input format.
	YAML bool
	// Compact emits single-line JSON instead of indented output.
	Compact bool
	// IgnoreMissing tolerates remove/replace/test failures on paths
	// that do not exist.
	IgnoreMissing bool
	// Assignments are the positional assignment strings, applied in
	// order.
	Assignments []string
}

// Usage returns the command usage text.
func Usage() string {
	return `Usage: jqesque [options] assignment [assignment...]

Applies jq-like assignment strings to a JSON or YAML document.

An assignment is "[op]path=value", e.g. 'foo.bar[0].baz=hello' or
'~settings.theme={"color":"blue"}'. Markers: + add, - remove,
= replace, ? test, > insert (default), ~ merge.

Options:
  -f file      Input document ("-" for stdin; default stdin)
  -o file      Output file (default stdout)
  -n           Start from an empty document
  -s char      Path separator character (default ".")
  -yaml        Emit YAML output
  -compact     Emit compact JSON output
  -ignore-missing
               Skip assignments whose path does not exist
`
}

// Parse parses command line arguments into a Config. It returns an
// exit.Result instead of an error so main can print and terminate
// uniformly.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Failuref(exit.CodeUsage, "Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		inputFile     = fs.String("f", "", "input document file")
		outputFile    = fs.String("o", "", "output file")
		empty         = fs.Bool("n", false, "start from an empty document")
		separator     = fs.String("s", ".", "path separator character")
		yamlOut       = fs.Bool("yaml", false, "emit YAML output")
		compact       = fs.Bool("compact", false, "emit compact JSON output")
		ignoreMissing = fs.Bool("ignore-missing", false, "skip assignments whose path is missing")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Failuref(exit.CodeUsage, "Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	assignments := fs.Args()
	if len(assignments) == 0 {
		return nil, exit.Failuref(exit.CodeUsage, "Error: %v\n\n%s", ErrNoAssignments, Usage())
	}

	sep, err := parseSeparator(*separator)
	if err != nil {
		return nil, exit.Failuref(exit.CodeUsage, "Error: %v\n\n%s", err, Usage())
	}

	if *empty && *inputFile != "" {
		return nil, exit.Failuref(exit.CodeUsage, "Error: %v\n\n%s", ErrInputConflict, Usage())
	}

	return &Config{
		InputFile:     *inputFile,
		OutputFile:    *outputFile,
		Empty:         *empty,
		Separator:     sep,
		YAML:          *yamlOut,
		Compact:       *compact,
		IgnoreMissing: *ignoreMissing,
		Assignments:   assignments,
	}, nil
}

func parseSeparator(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidSeparator, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
