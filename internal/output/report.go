package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tanq16/bgfetch/internal/utils"
	"golang.org/x/term"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

type Entry struct {
	URL     string
	Path    string
	Status  Status
	Bytes   int64
	Elapsed time.Duration
	Err     error
}

// Report collects per-download outcomes from any goroutine and renders them once.
type Report struct {
	mu      sync.Mutex
	entries []Entry
}

func NewReport() *Report {
	return &Report{}
}

func (r *Report) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *Report) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Status == StatusError {
			n++
		}
	}
	return n
}

func (r *Report) Render(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	width := getTerminalWidth()
	var success int
	for _, e := range r.entries {
		fmt.Fprintln(w, "  "+statusIndicator(e.Status)+" "+truncate(e.Path, width/2)+" "+FDebug(detail(e)))
		if e.Status != StatusError {
			success++
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+success2Style.Render(fmt.Sprintf("Completed %d of %d", success, len(r.entries))))
	if failures := len(r.entries) - success; failures > 0 {
		fmt.Fprintln(w, "  "+errorStyle.Render(fmt.Sprintf("Failed %d of %d", failures, len(r.entries))))
	}
}

func detail(e Entry) string {
	switch e.Status {
	case StatusError:
		return fmt.Sprintf("%s %v", StyleSymbols["arrow"], e.Err)
	case StatusSkipped:
		return "already exists"
	default:
		return fmt.Sprintf("%s in %s", utils.FormatBytes(uint64(e.Bytes)), e.Elapsed.Round(time.Millisecond))
	}
}

func statusIndicator(status Status) string {
	switch status {
	case StatusSuccess:
		return successStyle.Render(StyleSymbols["pass"])
	case StatusError:
		return errorStyle.Render(StyleSymbols["fail"])
	case StatusSkipped:
		return warningStyle.Render(StyleSymbols["skip"])
	default:
		return infoStyle.Render(StyleSymbols["bullet"])
	}
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // Default fallback width
	}
	return width
}

func truncate(text string, maxWidth int) string {
	if maxWidth < 10 || utf8.RuneCountInString(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	return "…" + strings.TrimSpace(string(runes[len(runes)-maxWidth+1:]))
}
