package downloader

import (
	"github.com/rs/zerolog"
	"github.com/tanq16/bgfetch/internal/dispatch"
	"github.com/tanq16/bgfetch/internal/scheduler"
	"github.com/tanq16/bgfetch/internal/utils"
)

// Option configures a BackgroundDownloader.
type Option func(*config)

type config struct {
	chunkSize       int
	httpConfig      utils.HTTPClientConfig
	client          utils.HTTPDoer
	dispatcher      dispatch.Dispatcher
	pool            *scheduler.Scheduler
	onDone          func()
	onResult        func(Result)
	logger          *zerolog.Logger
	removeOnFailure bool
	skipExisting    bool
}

// WithChunkSize sets the copy buffer size. Values below 1 fall back to utils.DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(c *config) {
		c.chunkSize = size
	}
}

func WithHTTPConfig(cfg utils.HTTPClientConfig) Option {
	return func(c *config) {
		c.httpConfig = cfg
	}
}

// WithHTTPClient replaces the client built from the HTTP config.
func WithHTTPClient(client utils.HTTPDoer) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithDispatcher sets the execution context completion callbacks are posted to.
// Without it callbacks run inline on the worker, after Wait has already returned.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(c *config) {
		c.dispatcher = d
	}
}

func WithScheduler(s *scheduler.Scheduler) Option {
	return func(c *config) {
		c.pool = s
	}
}

// WithDone registers a payload-less completion signal. It fires whether or not the
// transfer succeeded.
func WithDone(fn func()) Option {
	return func(c *config) {
		c.onDone = fn
	}
}

// WithResult registers a completion callback that receives the outcome, including any error.
func WithResult(fn func(Result)) Option {
	return func(c *config) {
		c.onResult = fn
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &logger
	}
}

// WithRemoveOnFailure deletes whatever was written to the destination when the transfer fails.
func WithRemoveOnFailure() Option {
	return func(c *config) {
		c.removeOnFailure = true
	}
}

// WithSkipExisting turns the download into a no-op when the destination already exists.
func WithSkipExisting() Option {
	return func(c *config) {
		c.skipExisting = true
	}
}
