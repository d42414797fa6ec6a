package downloader

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyURL       = errors.New("a url to the file to download is required")
	ErrAlreadyStarted = errors.New("download already started")
)

// HTTPStatusError is returned when the server answers with anything other than 200.
type HTTPStatusError struct {
	Code   int
	Status string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("server error: %d, %s", e.Code, e.Status)
}

// IOError covers connection, read and write failures. Op names the failing step.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
