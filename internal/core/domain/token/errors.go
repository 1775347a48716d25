package token

import "fmt"

// FormatError is internal to the core; services convert it to the opaque
// invalid-token error before it can cross the service boundary.
type FormatError struct {
	msg string
}

func NewFormatError(format string, args ...interface{}) *FormatError {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed one time token: %s", e.msg)
}
