package query

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration    = errors.New("configuration error")
	ErrSyntax           = errors.New("syntax error")
	ErrIndexAccess      = errors.New("index access error")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Error attaches a message to one of the sentinel errors above. Callers
// branch on the sentinel with errors.Is.
type Error struct {
	Err     error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(sentinel error, message string) *Error {
	return &Error{
		Err:     sentinel,
		Message: message,
	}
}

func Errorf(sentinel error, format string, args ...any) *Error {
	return &Error{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

func indexAccessError(err error, format string, args ...any) error {
	return Errorf(ErrIndexAccess, "%s: %v", fmt.Sprintf(format, args...), err)
}
