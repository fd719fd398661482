package parser

import (
	"errors"
	"fmt"
)

// ErrUnexpectedElement marks a start tag the active parser cannot bind to.
var ErrUnexpectedElement = errors.New("unexpected element")

// ErrNoCityModel is returned for documents without a CityModel root.
var ErrNoCityModel = errors.New("document has no CityModel root")

// ParseError is a fatal structural error. It aborts the parse.
type ParseError struct {
	File   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%d:%d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s:%d:%d: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
