package downloader

import (
	"fmt"
	"io"

	"github.com/tanq16/bgfetch/internal/output"
	"github.com/tanq16/bgfetch/internal/scheduler"
	"github.com/tanq16/bgfetch/internal/utils"
)

// RunBatch starts every job on a pool of numWorkers workers, waits for all of them and
// writes a summary to w. Each job is an independent download.
func RunBatch(jobs []utils.FetchJob, numWorkers int, w io.Writer, opts ...Option) error {
	pool := scheduler.New(numWorkers)
	defer pool.Close()

	report := output.NewReport()
	var started []*BackgroundDownloader
	for _, job := range jobs {
		jobOpts := append([]Option{
			WithChunkSize(job.ChunkSize),
			WithHTTPConfig(job.HTTPClientConfig),
			WithScheduler(pool),
		}, opts...)
		dl, err := New(job.URL, job.OutputPath, jobOpts...)
		if err == nil {
			err = dl.Start()
		}
		if err != nil {
			report.Add(output.Entry{URL: job.URL, Path: job.OutputPath, Status: output.StatusError, Err: err})
			continue
		}
		started = append(started, dl)
	}
	for _, dl := range started {
		report.Add(entryFor(dl.Wait()))
	}

	report.Render(w)
	if failures := report.Failures(); failures > 0 {
		return fmt.Errorf("%d of %d downloads failed", failures, len(jobs))
	}
	return nil
}

func entryFor(res Result) output.Entry {
	entry := output.Entry{URL: res.URL, Path: res.Path, Bytes: res.Bytes, Elapsed: res.Duration(), Err: res.Err}
	switch {
	case res.Failed():
		entry.Status = output.StatusError
	case res.Skipped:
		entry.Status = output.StatusSkipped
	default:
		entry.Status = output.StatusSuccess
	}
	return entry
}
