package rline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrResponseEnded is returned when writing to a response that has already ended.
var ErrResponseEnded = errors.New("response already ended")

// HandlerTypeError reports a value that was registered as a handler but cannot be invoked.
type HandlerTypeError struct {
	Method string // verb label of the registration call
	Value  any
}

func (e *HandlerTypeError) Error() string {
	typ := "nil"
	if e.Value != nil {
		typ = fmt.Sprintf("%T", e.Value)
	}
	return fmt.Sprintf("Route.%s() requires a handler function but got a %s",
		strings.ToLower(e.Method), typ)
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}
