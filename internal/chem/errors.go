package chem

import (
	"errors"
	"fmt"
)

var (
	ErrParse         = errors.New("unparsable formula")
	ErrInvalidInput  = errors.New("invalid input")
	ErrMissingWeight = errors.New("missing atomic weight")
)

// ParseError reports the byte offset where a formula string stopped matching.
type ParseError struct {
	Input  string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable formula %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

type MissingWeightError struct {
	Symbol string
}

func (e *MissingWeightError) Error() string {
	return fmt.Sprintf("no atomic weight for %q", e.Symbol)
}

func (e *MissingWeightError) Unwrap() error {
	return ErrMissingWeight
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
