package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/bgfetch/internal/downloader"
	"github.com/tanq16/bgfetch/internal/output"
	"github.com/tanq16/bgfetch/internal/utils"
)

func newBatchCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE] [OPTIONS]",
		Short: "Download every link listed in a YAML file",
		Long: `Download every link listed in a YAML file. Each entry is an independent download.

Example file:
  - link: https://example.com/a.mp4
    op: videos/a.mp4
  - link: https://example.com/b.mp4`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := utils.ReadBatchFile(args[0])
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			jobs := buildJobsFromBatch(entries)
			if len(jobs) == 0 {
				output.PrintError("No valid jobs found in the batch file")
				os.Exit(1)
			}
			output.PrintHeader(fmt.Sprintf("Downloading %d files with %d workers", len(jobs), workers))
			if err := downloader.RunBatch(jobs, workers, os.Stdout, batchOptions()...); err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Number of links to download in parallel")
	return cmd
}

func buildJobsFromBatch(entries []utils.BatchEntry) []utils.FetchJob {
	jobs := make([]utils.FetchJob, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, utils.FetchJob{
			URL:              entry.Link,
			OutputPath:       entry.OutputPath,
			ChunkSize:        chunkSize,
			HTTPClientConfig: httpConfig(),
		})
	}
	return jobs
}

func batchOptions() []downloader.Option {
	var opts []downloader.Option
	if skipExisting {
		opts = append(opts, downloader.WithSkipExisting())
	}
	if removeOnFailure {
		opts = append(opts, downloader.WithRemoveOnFailure())
	}
	return opts
}
