package prime

import (
	"errors"
	"fmt"
)

// Error types returned in Error.Type.
const (
	// TypeInvalidInput is for missing, non-numeric or degenerate inputs.
	TypeInvalidInput = "InvalidInput"
	// TypeOutOfRange is for a limit that could overflow the trial division.
	TypeOutOfRange = "OutOfRange"
	// TypeMismatch is for a count that disagrees with the reference count.
	TypeMismatch = "Mismatch"
)

// Error represents a typed error that this package can return.
// Not all errors are of this type.
type Error struct {
	// Type is the type of error.
	Type string
	// Msg is the message of the error.
	Msg string
}

// Error returns the Error type and message.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Msg)
}

// Errorf returns an Error of type "t" with a formatted message.
func Errorf(t string, format string, a ...any) error {
	return Error{Type: t, Msg: fmt.Sprintf(format, a...)}
}

// IsInvalidInput returns true if err is or wraps an InvalidInput error.
func IsInvalidInput(err error) bool {
	return isType(err, TypeInvalidInput)
}

// IsOutOfRange returns true if err is or wraps an OutOfRange error.
func IsOutOfRange(err error) bool {
	return isType(err, TypeOutOfRange)
}

// IsMismatch returns true if err is or wraps a Mismatch error.
func IsMismatch(err error) bool {
	return isType(err, TypeMismatch)
}

func isType(err error, t string) bool {
	if err == nil {
		return false
	}
	var e Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == t
}
