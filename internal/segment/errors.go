package segment

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies analysis failures.
type Kind int

const (
	KindInvalidConfiguration Kind = iota + 1
	KindDataUnavailable
	KindIncompleteInput
	KindOutOfRange
	KindInternalInvariantViolation
	KindInfeasible
)

// Sentinels for errors.Is. Every *Error unwraps to the sentinel of its kind.
var (
	ErrInvalidConfiguration       = errors.New("invalid configuration")
	ErrDataUnavailable            = errors.New("data unavailable")
	ErrIncompleteInput            = errors.New("incomplete input")
	ErrOutOfRange                 = errors.New("out of range")
	ErrInternalInvariantViolation = errors.New("internal invariant violation")
	ErrInfeasible                 = errors.New("infeasible")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidConfiguration:
		return ErrInvalidConfiguration
	case KindDataUnavailable:
		return ErrDataUnavailable
	case KindIncompleteInput:
		return ErrIncompleteInput
	case KindOutOfRange:
		return ErrOutOfRange
	case KindInternalInvariantViolation:
		return ErrInternalInvariantViolation
	case KindInfeasible:
		return ErrInfeasible
	}
	return nil
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error carries the segment, station and operation that failed.
type Error struct {
	Kind       Kind
	Op         string
	Key        Key
	Station    float64
	HasStation bool
	Msg        string
	Err        error
}

// New creates an error of the given kind for a segment.
func New(kind Kind, key Key, msg string) *Error {
	return &Error{Kind: kind, Key: key, Msg: msg}
}

// Errorf creates an error with a formatted message.
func Errorf(kind Kind, key Key, format string, args ...any) *Error {
	return New(kind, key, fmt.Sprintf(format, args...))
}

// At records the station the error refers to.
func (e *Error) At(station float64) *Error {
	e.Station = station
	e.HasStation = true
	return e
}

// In records the operation that failed.
func (e *Error) In(op string) *Error {
	e.Op = op
	return e
}

// Wrap records the underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, "segment %s", e.Key)
	if e.HasStation {
		fmt.Fprintf(&sb, " at %.4f m", e.Station)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Kind.String())
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of the first *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
