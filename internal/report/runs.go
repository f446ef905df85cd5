package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/banshee-data/disaster-response/internal/db"
)

// WriteRuns prints the recorded training runs, one row each.
func WriteRuns(w io.Writer, runs []db.TrainingRun) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no training runs recorded")
		return err
	}
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.RunID,
			r.Started.UTC().Format(time.RFC3339),
			r.Finished.Sub(r.Started).Round(time.Millisecond).String(),
			r.Table,
			strconv.Itoa(r.TrainRows),
			strconv.Itoa(r.TestRows),
			strconv.Itoa(r.Candidates),
			fmt.Sprintf("%.4f", r.BestCVScore),
			fmt.Sprintf("%.4f", r.MeanF1),
			r.BestParamsJSON,
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 4 && col <= 8:
				return numberStyle
			default:
				return cellStyle
			}
		}).
		Headers("run", "started", "took", "table", "train", "test", "candidates", "cv score", "mean f1", "params").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
