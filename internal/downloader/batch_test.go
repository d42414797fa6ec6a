package downloader

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/bgfetch/internal/utils"
)

func TestRunBatch(t *testing.T) {
	log.Logger = zerolog.Nop()
	mux := http.NewServeMux()
	mux.HandleFunc("/a.bin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("first file"))
	})
	mux.HandleFunc("/b.bin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("second file"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	jobs := []utils.FetchJob{
		{URL: srv.URL + "/a.bin", OutputPath: filepath.Join(dir, "a.bin")},
		{URL: srv.URL + "/b.bin", OutputPath: filepath.Join(dir, "b.bin"), ChunkSize: 4},
	}
	var out bytes.Buffer
	require.NoError(t, RunBatch(jobs, 2, &out))

	a, err := os.ReadFile(filepath.Join(dir, "a.bin"))
	require.NoError(t, err)
	assert.Equal(t, "first file", string(a))
	b, err := os.ReadFile(filepath.Join(dir, "b.bin"))
	require.NoError(t, err)
	assert.Equal(t, "second file", string(b))
	assert.Contains(t, out.String(), "Completed 2 of 2")
}

func TestRunBatchReportsFailures(t *testing.T) {
	log.Logger = zerolog.Nop()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	jobs := []utils.FetchJob{
		{URL: srv.URL + "/ok", OutputPath: filepath.Join(dir, "ok")},
		{URL: srv.URL + "/gone", OutputPath: filepath.Join(dir, "gone")},
		{URL: "", OutputPath: filepath.Join(dir, "empty")},
	}
	var out bytes.Buffer
	err := RunBatch(jobs, 1, &out)

	require.Error(t, err)
	assert.Equal(t, "2 of 3 downloads failed", err.Error())
	assert.Contains(t, out.String(), "Completed 1 of 3")
	assert.Contains(t, out.String(), "Failed 2 of 3")
	assert.Contains(t, out.String(), "server error: 410, Gone")
	assert.FileExists(t, filepath.Join(dir, "ok"))
	assert.NoFileExists(t, filepath.Join(dir, "gone"))
}
