package downloader

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of one download.
type Result struct {
	ID            uuid.UUID
	URL           string
	Path          string
	StatusCode    int
	ContentLength int64 // -1 when the server did not announce a length
	Bytes         int64
	Skipped       bool
	Started       time.Time
	Finished      time.Time
	Err           error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

func (r Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
