package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yuanying/epub2txt/internal/converter"
)

var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("#C3E88D")
	red    = lipgloss.Color("#F07178")

	headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = cellStyle.Foreground(green)
	failStyle   = cellStyle.Foreground(red)
)

const statusColumn = 1

// renderSummary renders one table row per book.
func renderSummary(results []converter.Result) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == statusColumn && row >= 0 && row < len(results) && results[row].Err != nil:
				return failStyle
			case col == statusColumn:
				return okStyle
			default:
				return cellStyle
			}
		}).
		Headers("Book", "Status", "Title", "Chapters", "Skipped", "Time")

	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		t.Row(
			filepath.Base(r.Path),
			truncateString(status, 60),
			truncateString(r.Stats.Title, 40),
			fmt.Sprintf("%d", r.Stats.Chapters),
			fmt.Sprintf("%d", r.Stats.Skipped),
			r.Duration.Round(time.Millisecond).String(),
		)
	}
	return t.String()
}

func countFailed(results []converter.Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func truncateString(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
