package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while a repository is walked.
type Reporter interface {
	// Start begins reporting. A negative total means the amount of work
	// is unknown up front.
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a CIReporter if the CI environment variable is set,
// and a TerminalReporter otherwise. Both write to w.
func NewReporter(w io.Writer, description string) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w, description: description}
	}
	return &TerminalReporter{w: w, description: description}
}

// TerminalReporter displays a progress bar, or a spinner when the total
// is unknown.
type TerminalReporter struct {
	w           io.Writer
	description string
	bar         *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(r.description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w           io.Writer
	description string
	total       int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	if total < 0 {
		fmt.Fprintf(r.w, "%s\n", r.description)
		return
	}
	fmt.Fprintf(r.w, "%s (%d items)\n", r.description, total)
}

func (r *CIReporter) Update(current int, message string) {
	if r.total < 0 {
		fmt.Fprintf(r.w, "[%d] %s\n", current, message)
		return
	}
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.w, "%s: done\n", r.description)
}
