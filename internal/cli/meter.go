package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/cwbudde/algo-fx/dsp/effectchain"
	"golang.org/x/term"
)

const (
	meterInterval = 100 * time.Millisecond
	meterRangeDB  = 60.0
	minBarWidth   = 10
	defaultWidth  = 80
)

// formatMeter renders one status line of at least width columns: output
// peak with a bar over the top 60 dB, then per-stage gain reduction.
func formatMeter(m effectchain.Meters, width int) string {
	ids := make([]string, 0, len(m.GainReduction))
	for id := range m.GainReduction {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	var gr strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&gr, " %s %5.1f", id, m.GainReduction[id])
	}

	head := fmt.Sprintf("out %6.1f dB ", m.OutputPeakDB)

	bar := max(width-len(head)-gr.Len()-2, minBarWidth)
	level := (math.Max(-meterRangeDB, math.Min(0, m.OutputPeakDB)) + meterRangeDB) / meterRangeDB
	filled := int(math.Round(float64(bar) * level))

	return head + "[" + strings.Repeat("#", filled) + strings.Repeat(" ", bar-filled) + "]" + gr.String()
}

// terminalFD returns w's file descriptor if w is a terminal.
func terminalFD(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}

	fd := int(f.Fd())

	return fd, term.IsTerminal(fd)
}

// runMeter redraws the meter line on w until ctx is done. It returns at once
// when w is not a terminal.
func runMeter(ctx context.Context, w io.Writer, chain *effectchain.Chain) {
	fd, ok := terminalFD(w)
	if !ok {
		return
	}

	ticker := time.NewTicker(meterInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return
		case <-ticker.C:
			width, _, err := term.GetSize(fd)
			if err != nil || width <= 0 {
				width = defaultWidth
			}

			fmt.Fprintf(w, "\r%s", formatMeter(chain.Meters(), width-1))
		}
	}
}
