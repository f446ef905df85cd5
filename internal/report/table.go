package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// WriteTable prints one row per category with precision, recall, F1 and
// support, followed by the mean F1.
func WriteTable(w io.Writer, ev *Evaluation) error {
	rows := make([][]string, len(ev.Categories))
	for j, name := range ev.Categories {
		rows[j] = []string{
			name,
			fmt.Sprintf("%.4f", ev.Precision[j]),
			fmt.Sprintf("%.4f", ev.Recall[j]),
			fmt.Sprintf("%.4f", ev.F1[j]),
			strconv.Itoa(ev.Support[j]),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		}).
		Headers("category", "precision", "recall", "f1", "support").
		Rows(rows...)

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "mean f1: %.4f\n", ev.MeanF1())
	return err
}
