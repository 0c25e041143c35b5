package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"creatura/internal/model"
)

// WriteRunReport renders the per-generation diagnostics of a run as a
// human-readable table.
func WriteRunReport(w io.Writer, runID string, diagnostics []model.GenerationDiagnostics, elapsed time.Duration) error {
	if _, err := fmt.Fprintf(w, "run %s: %s generations in %s\n",
		runID, humanize.Comma(int64(len(diagnostics))), elapsed.Round(time.Millisecond)); err != nil {
		return err
	}
	if len(diagnostics) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%-6s %-12s %-12s %-12s %-12s %-6s\n",
		"gen", "best", "mean", "median", "worst", "fault"); err != nil {
		return err
	}
	for _, d := range diagnostics {
		if _, err := fmt.Fprintf(w, "%-6d %-12s %-12s %-12s %-12s %-6d\n",
			d.Generation,
			humanize.FtoaWithDigits(d.BestFitness, 4),
			humanize.FtoaWithDigits(d.MeanFitness, 4),
			humanize.FtoaWithDigits(d.MedianFitness, 4),
			humanize.FtoaWithDigits(d.WorstFitness, 4),
			d.NonViableCount); err != nil {
			return err
		}
	}

	final := diagnostics[len(diagnostics)-1]
	_, err := fmt.Fprintf(w, "final best fitness %s (genome index %d)\n",
		humanize.FtoaWithDigits(final.BestFitness, 4), final.BestIndex)
	return err
}
