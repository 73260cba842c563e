// Package report prints per-path failures and the end-of-run summary.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"dwipe/internal/batch"
	"dwipe/internal/collector"
	"dwipe/internal/config"
	"dwipe/internal/wipe"
)

// Printer writes report lines to one writer, normally stderr.
type Printer struct {
	w       io.Writer
	styles  Styles
	verbose bool
}

// NewPrinter returns a Printer for w. With verbose set the summary is
// printed even when nothing failed.
func NewPrinter(w io.Writer, verbose bool) *Printer {
	return &Printer{
		w:       w,
		styles:  NewStyles(lipgloss.NewRenderer(w)),
		verbose: verbose,
	}
}

// Failure prints one failed path as "dwipe: <message>". Messages that do
// not already name the path get it prepended.
func (p *Printer) Failure(o batch.Outcome) {
	fmt.Fprintf(p.w, "%s %s\n", p.styles.Prefix.Render(config.APP_NAME+":"), p.message(o))
}

func (p *Printer) message(o batch.Outcome) string {
	var resolveErr *collector.ResolveError
	var wipeErr *wipe.Error
	if errors.As(o.Err, &resolveErr) || errors.As(o.Err, &wipeErr) {
		return o.Err.Error()
	}
	return fmt.Sprintf("%s: %v", p.styles.Path.Render(o.Path), o.Err)
}

// Summary prints "N file(s) wiped, M failed" when anything failed or the
// printer is verbose.
func (p *Printer) Summary(r batch.Report) {
	failed := len(r.Failed())
	if failed == 0 && !p.verbose {
		return
	}

	wiped := p.styles.Success.Render(fmt.Sprintf("%d file(s) wiped", r.Wiped()))
	failedStyle := p.styles.Success
	if failed > 0 {
		failedStyle = p.styles.Error
	}
	fmt.Fprintf(p.w, "%s, %s\n", wiped, failedStyle.Render(fmt.Sprintf("%d failed", failed)))
}
