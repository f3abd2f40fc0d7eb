package command

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is wrapped by errors for unregistered command names.
var ErrUnknownCommand = errors.New("unknown command")

// Error is a command failure as seen by the content layer: a plain message.
// Err keeps the underlying cause for logging and errors.Is.
type Error struct {
	Command string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// asCommandError converts any handler error into an *Error.
func asCommandError(name string, err error) *Error {
	var cmdErr *Error
	if errors.As(err, &cmdErr) {
		return cmdErr
	}
	msg := err.Error()
	if msg == "" {
		msg = fmt.Sprintf("%s failed", name)
	}
	return &Error{Command: name, Message: msg, Err: err}
}
