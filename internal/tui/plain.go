package tui

import (
	"fmt"
	"io"
	"strings"

	"taskboard/internal/tasks"
)

// RenderPlain writes the task list without the interactive UI.
func RenderPlain(w io.Writer, all []tasks.Task) error {
	done := 0
	lines := make([]string, 0, len(all))
	for _, t := range all {
		if t.Completed {
			done++
		}
		lines = append(lines, faintStyle.Render(fmt.Sprintf("#%d", t.ID))+" "+taskLine(t))
	}
	if len(all) == 0 {
		lines = append(lines, faintStyle.Render("No tasks yet"))
	}

	out := header(done, len(all)-done) + "\n" + completion(done, len(all)) + "\n\n" + strings.Join(lines, "\n")
	_, err := fmt.Fprintln(w, frame.Render(out))
	return err
}
