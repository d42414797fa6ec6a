package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	r := NewReport()
	r.Add(Entry{Path: "a.mp4", Status: StatusSuccess, Bytes: 2048, Elapsed: time.Second})
	r.Add(Entry{Path: "b.mp4", Status: StatusSkipped})
	r.Add(Entry{Path: "c.mp4", Status: StatusError, Err: errors.New("server error: 500, Internal Server Error")})

	var out bytes.Buffer
	r.Render(&out)

	assert.Equal(t, 1, r.Failures())
	assert.Contains(t, out.String(), "a.mp4")
	assert.Contains(t, out.String(), "2.00 KB in 1s")
	assert.Contains(t, out.String(), "already exists")
	assert.Contains(t, out.String(), "server error: 500, Internal Server Error")
	assert.Contains(t, out.String(), "Completed 2 of 3")
	assert.Contains(t, out.String(), "Failed 1 of 3")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	assert.Equal(t, "…/path/file.bin", truncate("/a/very/long/path/file.bin", 15))
}
