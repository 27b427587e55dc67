package cbor

import (
	"errors"
	"reflect"
	"strconv"
)

const resumableDefault = false

var (
	// ErrIllegal is returned for input that is not well-formed: reserved
	// additional info, truncated headers, or lengths running past the end of
	// the message.
	ErrIllegal error = errIllegal{}

	// ErrInvalid is returned for well-formed input this package does not
	// support, such as semantic tags.
	ErrInvalid error = errInvalid{}

	// ErrOverrun is returned when a buffer is too small: the descriptor
	// storage filled up before the message was consumed, or a decode output
	// buffer cannot hold the value. Parsing can resume with fresh storage.
	ErrOverrun error = errOverrun{}

	// ErrBreak reports that the last thing consumed was a break marker
	// closing an indefinite-length item. It is a successful terminator, not a
	// failure: callers walking indefinite items must tell it apart from real
	// errors.
	ErrBreak error = errBreak{}

	// ErrExcessive is returned when containers nest deeper than the
	// configured limit.
	ErrExcessive error = errExcessive{}

	// ErrKeyNotFound is returned by Unmarshal when a required handler key is
	// missing from the map.
	ErrKeyNotFound error = errors.New("cbor: key not found")
)

// Error is the interface satisfied
// by all of the errors that originate
// from this package.
type Error interface {
	error

	// Resumable returns whether
	// or not the error means that
	// the stream of data is malformed
	// and the information is unrecoverable.
	Resumable() bool
}

// Cause returns the underlying cause of an error that has been wrapped
// with additional context.
func Cause(e error) error {
	out := e
	for {
		switch w := out.(type) {
		case errWrapped:
			out = w.cause
		case OffsetError:
			out = w.Err
		default:
			return out
		}
	}
}

// Resumable returns whether or not the error means that the stream of data is
// malformed and the information is unrecoverable.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context that allows the part of the
// message that caused the problem to be identified. Underlying errors
// can be retrieved using Cause() or errors.Is.
func WrapError(err error, ctx ...any) error {
	if err == nil {
		return nil
	}
	return errWrapped{cause: err, ctx: ctxString(ctx)}
}

func ctxString(ctx []any) string {
	out := ""
	for idx, c := range ctx {
		if idx > 0 {
			out += "/"
		}
		switch v := c.(type) {
		case string:
			out += v
		case int:
			out += strconv.Itoa(v)
		case uint64:
			out += strconv.FormatUint(v, 10)
		case int64:
			out += strconv.FormatInt(v, 10)
		default:
			out += "?"
		}
	}
	return out
}

// errWrapped allows arbitrary errors passed to WrapError to be enhanced with
// context and unwrapped with Cause()
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	} else {
		return e.cause.Error()
	}
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// Unwrap returns the cause.
func (e errWrapped) Unwrap() error { return e.cause }

// OffsetError records the message offset of the header that failed to parse.
type OffsetError struct {
	Offset int
	Err    error
}

// Error implements the error interface
func (e OffsetError) Error() string {
	return e.Err.Error() + " at offset " + strconv.Itoa(e.Offset)
}

// Resumable reports the resumability of the wrapped error.
func (e OffsetError) Resumable() bool { return Resumable(e.Err) }

// Unwrap returns the wrapped error.
func (e OffsetError) Unwrap() error { return e.Err }

type errIllegal struct{}

func (e errIllegal) Error() string   { return "cbor: malformed item" }
func (e errIllegal) Resumable() bool { return false }

type errInvalid struct{}

func (e errInvalid) Error() string   { return "cbor: unsupported item" }
func (e errInvalid) Resumable() bool { return false }

type errOverrun struct{}

func (e errOverrun) Error() string   { return "cbor: buffer overrun" }
func (e errOverrun) Resumable() bool { return true }

type errBreak struct{}

func (e errBreak) Error() string   { return "cbor: break" }
func (e errBreak) Resumable() bool { return true }

type errExcessive struct{}

func (e errExcessive) Error() string   { return "cbor: recursion limit reached" }
func (e errExcessive) Resumable() bool { return false }

// A TypeError is returned when a typed accessor is used on an item of
// another type.
type TypeError struct {
	Method  Type // Type expected by method
	Encoded Type // Type actually encoded
}

// Error implements the error interface
func (t TypeError) Error() string {
	return "cbor: attempted to decode type " + strconv.Quote(t.Encoded.String()) + " with method for " + strconv.Quote(t.Method.String())
}

// Resumable returns 'true' for TypeErrors
func (t TypeError) Resumable() bool { return true }

// IntOverflow is returned when a negative integer is below the range of
// int64.
type IntOverflow struct {
	Magnitude uint64 // the encoded magnitude, the value is -1-Magnitude
}

// Error implements the error interface
func (i IntOverflow) Error() string {
	return "cbor: -1-" + strconv.FormatUint(i.Magnitude, 10) + " overflows int64"
}

// Resumable is always 'true' for overflows
func (i IntOverflow) Resumable() bool { return true }

// UintOverflow is returned when an unsigned integer does not fit the
// requested type.
type UintOverflow struct {
	Value         uint64 // value of the uint
	FailedBitsize int    // the bit size that couldn't fit the value
}

// Error implements the error interface
func (u UintOverflow) Error() string {
	return "cbor: " + strconv.FormatUint(u.Value, 10) + " overflows int" + strconv.Itoa(u.FailedBitsize)
}

// Resumable is always 'true' for overflows
func (u UintOverflow) Resumable() bool { return true }

// UintBelowZero is returned when a negative integer is decoded as
// unsigned.
type UintBelowZero struct {
	Value int64 // value of the encoded int, if it fits
}

// Error implements the error interface
func (u UintBelowZero) Error() string {
	return "cbor: attempted to cast int " + strconv.FormatInt(u.Value, 10) + " to unsigned"
}

// Resumable is always 'true' for overflows
func (u UintBelowZero) Resumable() bool { return true }

// ErrUnsupportedType is returned when a bad argument is supplied to
// a function that accepts arbitrary values.
type ErrUnsupportedType struct {
	T reflect.Type
}

// Error implements error
func (e *ErrUnsupportedType) Error() string {
	name := "<nil>"
	if e.T != nil {
		name = e.T.String()
	}
	return "cbor: type " + strconv.Quote(name) + " not supported"
}

// Resumable returns 'true' for ErrUnsupportedType
func (e *ErrUnsupportedType) Resumable() bool { return true }

// Status is the flat result code of a parse or decode call.
type Status uint8

// Status codes
const (
	Success Status = iota
	Illegal
	Invalid
	Overrun
	Break
	Excessive
	Failure // an error that did not originate from this package
)

// StatusOf maps an error returned by this package to its status code.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrIllegal):
		return Illegal
	case errors.Is(err, ErrInvalid):
		return Invalid
	case errors.Is(err, ErrOverrun):
		return Overrun
	case errors.Is(err, ErrBreak):
		return Break
	case errors.Is(err, ErrExcessive):
		return Excessive
	default:
		return Failure
	}
}

// String implements fmt.Stringer
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Illegal:
		return "illegal"
	case Invalid:
		return "invalid"
	case Overrun:
		return "overrun"
	case Break:
		return "break"
	case Excessive:
		return "excessive"
	default:
		return "failure"
	}
}
