// Command jqesque applies jq-like assignment strings to a JSON or
// YAML document and prints the result.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/jacoelho/jqesque"
	"github.com/jacoelho/jqesque/internal/config"
	"github.com/jacoelho/jqesque/internal/document"
	"github.com/jacoelho/jqesque/internal/exit"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	if exitResult := apply(cfg); exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}
	return exit.CodeOK
}

func apply(cfg *config.Config) *exit.Result {
	doc, exitResult := readDocument(cfg)
	if exitResult != nil {
		return exitResult
	}

	for _, raw := range cfg.Assignments {
		a, err := jqesque.ParseWithSeparator(raw, jqesque.Separator(cfg.Separator))
		if err != nil {
			return exit.Failuref(exit.CodeParse, "Error: %q: %v\n", raw, err)
		}
		if err := a.Apply(&doc); err != nil {
			if cfg.IgnoreMissing && (errors.Is(err, jqesque.ErrPathNotFound) || errors.Is(err, jqesque.ErrIndexOutOfBounds)) {
				continue
			}
			return exit.Failuref(exit.CodeApply, "Error: %q: %v\n", raw, err)
		}
	}

	return writeDocument(cfg, doc)
}

func readDocument(cfg *config.Config) (any, *exit.Result) {
	if cfg.Empty {
		return nil, nil
	}

	var r io.Reader = os.Stdin
	if cfg.InputFile != "" && cfg.InputFile != "-" {
		f, err := os.Open(cfg.InputFile)
		if err != nil {
			return nil, exit.Failuref(exit.CodeIO, "Error: %v\n", err)
		}
		defer f.Close()
		r = f
	}

	doc, err := document.Decode(r)
	if err != nil {
		return nil, exit.Failuref(exit.CodeIO, "Error: %v\n", err)
	}
	return doc, nil
}

func writeDocument(cfg *config.Config, doc any) *exit.Result {
	format := document.JSON
	switch {
	case cfg.YAML:
		format = document.YAML
	case cfg.Compact:
		format = document.CompactJSON
	}

	var w io.Writer = os.Stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return exit.Failuref(exit.CodeIO, "Error: %v\n", err)
		}
		defer f.Close()
		w = f
	}

	if err := document.Encode(w, doc, format); err != nil {
		return exit.Failuref(exit.CodeIO, "Error: %v\n", err)
	}
	return nil
}
