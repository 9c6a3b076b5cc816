package lcd

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package matches one of
// them with errors.Is.
var (
	// ErrCreationFailed is returned when the backend hands out a null
	// handle with no further context.
	ErrCreationFailed = errors.New("lcd: backend returned a null handle")

	// ErrLoadFailed is matched by every *LoadError.
	ErrLoadFailed = errors.New("lcd: load failed")

	// ErrQueryFailed is returned when a data or state query fails.
	ErrQueryFailed = errors.New("lcd: query failed")

	// ErrLookupFailed is returned when a table has no bitmap at an index.
	ErrLookupFailed = errors.New("lcd: table lookup failed")

	// ErrStackUnderflow is returned by PopContext without a matching push.
	ErrStackUnderflow = errors.New("lcd: context stack underflow")

	// ErrInvalidArgument is returned for parameters outside their
	// documented range. These are checked before any backend call.
	ErrInvalidArgument = errors.New("lcd: invalid argument")

	// ErrReleased is returned when a released resource is used.
	ErrReleased = errors.New("lcd: resource released")

	// ErrBitmapBusy is returned when a bitmap's pixels are used while it
	// is the target of an active context redirect.
	ErrBitmapBusy = errors.New("lcd: bitmap is the active drawing target")

	// ErrBackendCall wraps failures reported by the backend call itself.
	ErrBackendCall = errors.New("lcd: backend call failed")
)

// LoadError describes a failed load of a bitmap, table or font.
type LoadError struct {
	// Kind is "bitmap", "bitmap table" or "font".
	Kind string
	Path string
	// Message is the backend's description; empty when it gave none.
	Message string
	// Err is set when the backend call itself failed.
	Err error
}

func (e *LoadError) Error() string {
	msg := e.Message
	switch {
	case msg != "":
	case e.Err != nil:
		msg = e.Err.Error()
	default:
		msg = "backend gave no reason"
	}
	return fmt.Sprintf("lcd: load %s %q: %s", e.Kind, e.Path, msg)
}

// Is reports whether target is ErrLoadFailed.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailed
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// callErr wraps a backend failure for op.
func callErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackendCall, op, err)
}

// queryErr wraps a failed query for op.
func queryErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrQueryFailed, op, err)
}
