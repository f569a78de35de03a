package jqesque

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel error for all failures while parsing an
// assignment string. Every parse error wraps it, so callers can check
// for the whole class with errors.Is(err, ErrParse) or for a specific
// reason with one of the sentinels below.
var ErrParse = errors.New("parse error")

var (
	ErrEmptyPath           = fmt.Errorf("%w: empty path", ErrParse)
	ErrUnknownOperation    = fmt.Errorf("%w: unknown operation marker", ErrParse)
	ErrUnterminatedBracket = fmt.Errorf("%w: unterminated bracket", ErrParse)
	ErrUnterminatedQuote   = fmt.Errorf("%w: unterminated quoted key", ErrParse)
	ErrInvalidIndex        = fmt.Errorf("%w: invalid array index", ErrParse)
	ErrInvalidSegment      = fmt.Errorf("%w: invalid path segment", ErrParse)
	ErrEmptySegment        = fmt.Errorf("%w: empty path segment", ErrParse)
	ErrMissingValue        = fmt.Errorf("%w: missing value", ErrParse)
	ErrUnexpectedValue     = fmt.Errorf("%w: unexpected value", ErrParse)
)

// ErrApply is the sentinel error for all failures while applying a
// parsed assignment to a document. Every apply error wraps it.
var ErrApply = errors.New("apply error")

var (
	ErrPathNotFound     = fmt.Errorf("%w: path not found", ErrApply)
	ErrIndexOutOfBounds = fmt.Errorf("%w: array index out of bounds", ErrApply)
	ErrTypeMismatch     = fmt.Errorf("%w: type mismatch", ErrApply)
	ErrTestFailed       = fmt.Errorf("%w: test failed", ErrApply)
)
