package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/tasks"
)

const (
	markDone    = "☑"
	markPending = "☐"
)

var (
	frame = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	struckStyle  = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

// taskLine renders one task without the selection cursor.
func taskLine(t tasks.Task) string {
	mark, title := faintStyle.Render(markPending), t.Title
	if t.Completed {
		mark, title = doneStyle.Render(markDone), struckStyle.Render(t.Title)
	}
	line := mark + " " + title
	if t.Description != "" {
		line += "  " + faintStyle.Render(t.Description)
	}
	return line
}

func header(done, pending int) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		headingStyle.Render("Tasks"),
		doneStyle.Render(fmt.Sprintf("%d done", done)),
		pendingStyle.Render(fmt.Sprintf("%d pending", pending)),
		faintStyle.Render(fmt.Sprintf("%d total", done+pending)),
	)
}

// completion draws a fixed-width bar of done over total.
func completion(done, total int) string {
	const width = 24
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	bar := doneStyle.Render(strings.Repeat("━", filled)) + faintStyle.Render(strings.Repeat("━", width-filled))
	return fmt.Sprintf("%s %d/%d", bar, done, total)
}
