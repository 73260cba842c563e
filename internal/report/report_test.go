package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"dwipe/internal/batch"
	"dwipe/internal/collector"
	"dwipe/internal/wipe"

	"github.com/stretchr/testify/assert"
)

func TestFailure(t *testing.T) {
	tests := []struct {
		name    string
		outcome batch.Outcome
		want    string
	}{
		{
			name: "resolution error names its path",
			outcome: batch.Outcome{
				Path: "docs",
				Err:  &collector.ResolveError{Path: "docs", Reason: collector.ReasonIsDirectory},
			},
			want: "dwipe: cannot wipe 'docs': is a directory\n",
		},
		{
			name: "wipe error names its path",
			outcome: batch.Outcome{
				Path: "a.txt",
				Err:  &wipe.Error{Path: "a.txt", Op: wipe.OpWrite, Pass: 1, Err: wipe.ErrShortWrite},
			},
			want: "dwipe: cannot wipe 'a.txt': write failed in round 1: short write\n",
		},
		{
			name: "other errors get the path prepended",
			outcome: batch.Outcome{
				Path: "b.txt",
				Err:  fmt.Errorf("%w: %w", batch.ErrNotProcessed, context.Canceled),
			},
			want: "dwipe: b.txt: not processed: context canceled\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, false).Failure(tt.outcome)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSummary(t *testing.T) {
	ok := batch.Outcome{Path: "a"}
	bad := batch.Outcome{Path: "b", Err: errors.New("boom")}
	dir := batch.Outcome{Path: "d", Dir: true}

	tests := []struct {
		name    string
		report  batch.Report
		verbose bool
		want    string
	}{
		{
			name:   "quiet when everything succeeded",
			report: batch.Report{Outcomes: []batch.Outcome{ok, dir}},
			want:   "",
		},
		{
			name:    "verbose always prints",
			report:  batch.Report{Outcomes: []batch.Outcome{ok, dir}},
			verbose: true,
			want:    "1 file(s) wiped, 0 failed\n",
		},
		{
			name:   "failures always print",
			report: batch.Report{Outcomes: []batch.Outcome{ok, bad, ok}},
			want:   "2 file(s) wiped, 1 failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, tt.verbose).Summary(tt.report)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
