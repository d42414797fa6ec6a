package cmd

import (
	"context"
	"fmt"
	u "net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/bgfetch/internal/dispatch"
	"github.com/tanq16/bgfetch/internal/downloader"
	"github.com/tanq16/bgfetch/internal/output"
	"github.com/tanq16/bgfetch/internal/utils"
)

var (
	outputFlag      string
	chunkSize       int
	timeout         time.Duration
	kaTimeout       time.Duration
	userAgent       string
	proxyURL        string
	proxyUsername   string
	proxyPassword   string
	debug           bool
	fileLog         bool
	skipExisting    bool
	removeOnFailure bool
)

var BgfetchVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "bgfetch [URL] [--output OUTPUT_PATH]",
	Short:   "bgfetch downloads a file over HTTP/HTTPS in the background",
	Version: BgfetchVersion,
	Args:    cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return utils.InitLogger(debug, fileLog)
	},
	Run: func(cmd *cobra.Command, args []string) {
		url := args[0]
		if _, err := u.Parse(url); err != nil {
			output.PrintError("Invalid URL format")
			os.Exit(1)
		}
		outputPath := outputFlag
		if outputPath == "" {
			outputPath = utils.InferOutputPath(url)
		}
		if err := fetchOne(url, outputPath); err != nil {
			output.PrintError(fmt.Sprintf("Download failed: %v", err))
			os.Exit(1)
		}
	},
}

// fetchOne runs the download on the default pool while this goroutine drives a
// dispatch loop, so the result callback runs here and not on the worker.
func fetchOne(url, outputPath string) error {
	loop := dispatch.NewLoop()
	var outcome downloader.Result
	delivered := make(chan struct{})
	dl, err := downloader.New(url, outputPath, append(downloadOptions(),
		downloader.WithDispatcher(loop),
		downloader.WithResult(func(res downloader.Result) {
			outcome = res
			close(delivered)
		}),
	)...)
	if err != nil {
		return err
	}
	if err := dl.Start(); err != nil {
		return err
	}
	loop.RunUntil(context.Background(), delivered)
	if outcome.Failed() {
		return outcome.Err
	}
	if outcome.Skipped {
		output.PrintWarning(fmt.Sprintf("%s already exists, skipped", outputPath))
		return nil
	}
	output.PrintSuccess(fmt.Sprintf("Downloaded %s (%s)", outputPath, utils.FormatBytes(uint64(outcome.Bytes))))
	return nil
}

func httpConfig() utils.HTTPClientConfig {
	return utils.SplitProxyAuth(utils.HTTPClientConfig{
		Timeout:       timeout,
		KATimeout:     kaTimeout,
		ProxyURL:      proxyURL,
		ProxyUsername: proxyUsername,
		ProxyPassword: proxyPassword,
		UserAgent:     userAgent,
	})
}

func downloadOptions() []downloader.Option {
	opts := []downloader.Option{
		downloader.WithChunkSize(chunkSize),
		downloader.WithHTTPConfig(httpConfig()),
	}
	if skipExisting {
		opts = append(opts, downloader.WithSkipExisting())
	}
	if removeOnFailure {
		opts = append(opts, downloader.WithRemoveOnFailure())
	}
	return opts
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (inferred from the URL if not provided)")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", utils.DefaultChunkSize, "Copy buffer size in bytes")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 0, "Request timeout, 0 for none (eg. 5s, 10m)")
	rootCmd.PersistentFlags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	rootCmd.PersistentFlags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	rootCmd.PersistentFlags().BoolVar(&skipExisting, "skip-existing", false, "Skip the download when the output file already exists")
	rootCmd.PersistentFlags().BoolVar(&removeOnFailure, "remove-on-failure", false, "Delete the partial output file when a download fails")

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&fileLog, "log-file", false, "Write logs to "+utils.LogFile+" instead of stderr")

	rootCmd.AddCommand(newBatchCmd())
}
