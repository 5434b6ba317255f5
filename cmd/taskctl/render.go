package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/TWRT/task-tracker/internal/models"
	"github.com/TWRT/task-tracker/internal/view"
)

func renderTasks(out io.Writer, tasks []models.Task, now time.Time) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(out, "no tasks")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tNAME\tPRIORITY\tDUE\tCREATED")
	for _, t := range tasks {
		done := ""
		if t.Completed {
			done = "x"
		}

		due := view.FormatDate(t.DueDateValue())
		if view.IsOverdueAt(t.DueDateValue(), bool(t.Completed), now) {
			due += " (overdue)"
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			done,
			t.Name,
			view.GetPriorityLabel(t.Priority).Text,
			due,
			humanize.RelTime(t.CreatedAt, now, "ago", "from now"),
		)
	}
	return tw.Flush()
}
