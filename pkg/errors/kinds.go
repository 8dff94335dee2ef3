package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the command layer.
type Kind string

// Exported constants.
const (
	KindNotFound    Kind = "not found"
	KindAmbiguous   Kind = "ambiguous"
	KindInvalidPath Kind = "invalid path"
	KindForbidden   Kind = "forbidden"
	KindIOFailure   Kind = "i/o failure"
)

// Sentinel errors, one per Kind. Every *Error unwraps to the sentinel of its kind,
// so callers can test with errors.Is(err, ErrNotFound).
var (
	ErrNotFound    = errors.New("not found")
	ErrAmbiguous   = errors.New("ambiguous")
	ErrInvalidPath = errors.New("invalid path")
	ErrForbidden   = errors.New("forbidden")
	ErrIOFailure   = errors.New("i/o failure")
)

// Error is a failure tagged with a Kind and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// New creates an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error of the given kind that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}

	return e.Msg + ": " + e.Err.Error()
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	errs := []error{sentinel(e.Kind)}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// KindOf returns the kind of the first *Error in err's chain, or KindIOFailure when err
// carries no kind. It returns "" for a nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var kindErr *Error
	if errors.As(err, &kindErr) {
		return kindErr.Kind
	}

	return KindIOFailure
}

func sentinel(kind Kind) error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindAmbiguous:
		return ErrAmbiguous
	case KindInvalidPath:
		return ErrInvalidPath
	case KindForbidden:
		return ErrForbidden
	case KindIOFailure:
		return ErrIOFailure
	default:
		return ErrIOFailure
	}
}
