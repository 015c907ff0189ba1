package userinteraction

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ReporterPort = (*ConsoleReporter)(nil)

// ConsoleReporter prints progress lines for the operator. Terms run
// concurrently, so every write holds the mutex.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) ShowTermStart(ctx context.Context, term string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(r.out, "\n━━━ %s ━━━\n", term)
}

func (r *ConsoleReporter) ShowImage(ctx context.Context, term string, result entity.ImageResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dim := color.New(color.Faint)
	switch result.Outcome {
	case entity.OutcomeSaved:
		green := color.New(color.FgGreen)
		green.Fprintf(r.out, "✓ [%s] #%d ", term, result.Index)
		dim.Fprintln(r.out, result.Path)
	case entity.OutcomeRejected:
		yellow := color.New(color.FgYellow)
		yellow.Fprintf(r.out, "– [%s] #%d skipped: ", term, result.Index)
		dim.Fprintln(r.out, errText(result.Err))
	default:
		red := color.New(color.FgRed)
		red.Fprintf(r.out, "✗ [%s] #%d failed: ", term, result.Index)
		dim.Fprintln(r.out, truncate(errText(result.Err), 300))
	}
}

func (r *ConsoleReporter) ShowSummary(ctx context.Context, reports []*entity.TermReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(reports) == 0 {
		color.New(color.FgYellow).Fprintln(r.out, "\nNo search terms given.")
		return
	}

	bold := color.New(color.Bold)
	bold.Fprintln(r.out, "\nSummary")
	for _, rep := range reports {
		line := fmt.Sprintf("  %-24s urls=%-3d saved=%-3d rejected=%-3d failed=%-3d missed=%-3d %s",
			truncate(rep.Term, 24),
			len(rep.Harvest.URLs),
			rep.Count(entity.OutcomeSaved),
			rep.Count(entity.OutcomeRejected),
			rep.Count(entity.OutcomeFailed),
			rep.Harvest.Failures,
			rep.Duration.Round(100*time.Millisecond),
		)
		statusColor(rep.Status()).Fprintln(r.out, line)
		if rep.Err != nil {
			color.New(color.Faint).Fprintf(r.out, "    %s\n", truncate(rep.Err.Error(), 300))
		}
	}
}

func statusColor(status entity.TermStatus) *color.Color {
	switch status {
	case entity.TermStatusCompleted:
		return color.New(color.FgGreen)
	case entity.TermStatusEmpty:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
