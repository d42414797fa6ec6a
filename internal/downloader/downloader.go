package downloader

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tanq16/bgfetch/internal/dispatch"
	"github.com/tanq16/bgfetch/internal/scheduler"
	"github.com/tanq16/bgfetch/internal/utils"
)

// BackgroundDownloader fetches one URL into one local file on a scheduler worker and
// reports back through the configured dispatcher.
type BackgroundDownloader struct {
	id      uuid.UUID
	url     string
	path    string
	cfg     config
	client  utils.HTTPDoer
	log     zerolog.Logger
	started atomic.Bool
	done    chan struct{}
	result  Result
}

// New validates its arguments and prepares a download. It performs no I/O.
func New(url, destination string, opts ...Option) (*BackgroundDownloader, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	cfg := config{chunkSize: utils.DefaultChunkSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.chunkSize < 1 {
		cfg.chunkSize = utils.DefaultChunkSize
	}
	if cfg.dispatcher == nil {
		cfg.dispatcher = dispatch.Inline{}
	}
	client := cfg.client
	if client == nil {
		client = utils.NewFetchHTTPClient(cfg.httpConfig)
	}
	logger := utils.GetLogger("downloader")
	if cfg.logger != nil {
		logger = *cfg.logger
	}
	id := uuid.New()
	return &BackgroundDownloader{
		id:     id,
		url:    url,
		path:   destination,
		cfg:    cfg,
		client: client,
		log:    logger.With().Str("op", "downloader/downloader").Str("id", id.String()).Logger(),
		done:   make(chan struct{}),
	}, nil
}

func (d *BackgroundDownloader) ID() uuid.UUID {
	return d.id
}

// Start hands the transfer to a scheduler worker and returns immediately. Once the
// transfer ends the completion callbacks are posted to the dispatcher, once each.
func (d *BackgroundDownloader) Start() error {
	if !d.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	pool := d.cfg.pool
	if pool == nil {
		pool = scheduler.Default()
	}
	if err := pool.Submit(func() { d.finish(d.runSafely()) }); err != nil {
		d.started.Store(false)
		return fmt.Errorf("error submitting download: %w", err)
	}
	return nil
}

// Done is closed once a transfer handed over by Start has finished, before the
// callbacks are posted. It is never closed for a download that was not started, or
// one driven directly through Run.
func (d *BackgroundDownloader) Done() <-chan struct{} {
	return d.done
}

// Wait blocks until a started transfer has finished and returns its result. It does
// not wait for the callbacks. Called before Start, or after a direct Run, it blocks
// forever.
func (d *BackgroundDownloader) Wait() Result {
	<-d.done
	return d.result
}

// Run performs the transfer on the calling goroutine. It fires no callbacks.
func (d *BackgroundDownloader) Run() Result {
	res := Result{ID: d.id, URL: d.url, Path: d.path, ContentLength: -1, Started: time.Now()}
	if d.cfg.skipExisting {
		if _, err := os.Stat(d.path); err == nil {
			res.Skipped = true
			res.Finished = time.Now()
			d.log.Info().Str("path", d.path).Msg("destination exists, download skipped")
			return res
		}
	}
	opened, err := d.fetch(&res)
	res.Finished = time.Now()
	if err != nil {
		res.Err = err
		d.log.Error().Err(err).Str("url", d.url).Str("path", d.path).Msg("download failed")
		if opened && d.cfg.removeOnFailure {
			if rmErr := os.Remove(d.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				d.log.Warn().Err(rmErr).Msg("error removing partial file")
			}
		}
	}
	d.log.Debug().Int64("bytes", res.Bytes).Dur("elapsed", res.Duration()).Send()
	d.log.Info().Str("path", d.path).Msg("download done")
	return res
}

func (d *BackgroundDownloader) runSafely() (res Result) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Result{ID: d.id, URL: d.url, Path: d.path, ContentLength: -1, Started: started, Finished: time.Now(), Err: fmt.Errorf("download panicked: %v", r)}
			d.log.Error().Err(res.Err).Msg("download failed")
		}
	}()
	return d.Run()
}

// finish publishes the result before posting the callbacks, so a callback that panics
// or blocks on the worker cannot hold up Wait.
func (d *BackgroundDownloader) finish(res Result) {
	d.result = res
	close(d.done)
	onDone, onResult := d.cfg.onDone, d.cfg.onResult
	if onDone != nil || onResult != nil {
		d.cfg.dispatcher.Post(func() {
			if onDone != nil {
				onDone()
			}
			if onResult != nil {
				onResult(res)
			}
		})
	}
}

// fetch reports whether the destination was opened, so failure cleanup never touches
// a file this download did not write.
func (d *BackgroundDownloader) fetch(res *Result) (opened bool, err error) {
	req, err := http.NewRequest(http.MethodGet, d.url, nil)
	if err != nil {
		return false, &IOError{Op: "error creating GET request", Err: err}
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return false, &IOError{Op: "error executing GET request", Err: err}
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.ContentLength = resp.ContentLength
	if resp.StatusCode != http.StatusOK {
		return false, &HTTPStatusError{Code: resp.StatusCode, Status: statusMessage(resp)}
	}

	outFile, err := os.OpenFile(d.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return false, &IOError{Op: "error creating output file", Err: err}
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = &IOError{Op: "error closing output file", Err: closeErr}
		}
	}()

	buffer := make([]byte, d.cfg.chunkSize)
	for {
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if _, writeErr := outFile.Write(buffer[:bytesRead]); writeErr != nil {
				return true, &IOError{Op: "error writing to output file", Err: writeErr}
			}
			res.Bytes += int64(bytesRead)
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return true, &IOError{Op: "error reading response body", Err: readErr}
		}
	}
	if err := outFile.Sync(); err != nil {
		return true, &IOError{Op: "error syncing output file", Err: err}
	}
	return true, nil
}

// statusMessage returns the reason phrase the server sent, without the code.
func statusMessage(resp *http.Response) string {
	msg := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return msg
}
