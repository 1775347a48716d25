package directory

import (
	"errors"
	"fmt"
)

var (
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrPreconditionFailed = errors.New("user update precondition failed")
)

// RequestError means the directory understood and rejected the request.
// The remote status code is preserved for the transport layer.
type RequestError struct {
	StatusCode int
	Message    string
}

func NewRequestError(statusCode int, message string) *RequestError {
	return &RequestError{StatusCode: statusCode, Message: message}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("directory rejected request (%d): %s", e.StatusCode, e.Message)
}

// ClientError means the request never got a directory response, e.g. a
// connection or timeout failure.
type ClientError struct {
	Message string
	Err     error
}

func NewClientError(message string, err error) *ClientError {
	return &ClientError{Message: message, Err: err}
}

func (e *ClientError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("directory client error: %s", e.Message)
	}
	return fmt.Sprintf("directory client error: %s: %v", e.Message, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}
