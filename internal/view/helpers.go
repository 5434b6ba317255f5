// Package view holds pure helpers used to present tasks that were already
// fetched from the API: validation, date formatting, priority labels,
// overdue detection, sorting and filtering.
package view

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/TWRT/task-tracker/internal/models"
)

const (
	SortByDueDate  = "due_date"
	SortByPriority = "priority"

	StatusAll        = "all"
	StatusCompleted  = "completed"
	StatusIncomplete = "incomplete"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

type PriorityLabel struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

var priorityLabels = map[string]PriorityLabel{
	"high":   {Text: "High", Color: "#e63946"},
	"medium": {Text: "Medium", Color: "#ff9800"},
	"low":    {Text: "Low", Color: "#5ac8fa"},
}

var priorityRank = map[string]int{
	"high":   1,
	"medium": 2,
	"low":    3,
}

// IsValidTaskName reports whether v is a string with at least one
// non-whitespace character.
func IsValidTaskName(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// ParseDate parses the date formats tasks are stored with. The wall clock
// values are kept as written; no time zone conversion happens.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders s as "Jan 2, 2006". Values that do not parse are
// returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

func GetPriorityLabel(priority string) PriorityLabel {
	if label, ok := priorityLabels[priority]; ok {
		return label
	}
	return priorityLabels[models.DefaultPriority]
}

func IsOverdue(dueDate string, completed bool) bool {
	return IsOverdueAt(dueDate, completed, time.Now())
}

// IsOverdueAt compares calendar days only: a task due on now's date is not
// overdue.
func IsOverdueAt(dueDate string, completed bool, now time.Time) bool {
	if completed || dueDate == "" {
		return false
	}
	due, ok := ParseDate(dueDate)
	if !ok {
		return false
	}
	return dayOf(due).Before(dayOf(now))
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SortTasks returns a sorted copy of tasks. An empty sortBy sorts by due
// date; unknown values return the copy in its original order.
func SortTasks(tasks []models.Task, sortBy string) []models.Task {
	out := slices.Clone(tasks)
	if out == nil {
		out = []models.Task{}
	}

	switch sortBy {
	case "", SortByDueDate:
		slices.SortStableFunc(out, compareDueDate)
	case SortByPriority:
		slices.SortStableFunc(out, func(a, b models.Task) int {
			return cmp.Compare(rankOf(a.Priority), rankOf(b.Priority))
		})
	}
	return out
}

func compareDueDate(a, b models.Task) int {
	da, okA := ParseDate(a.DueDateValue())
	db, okB := ParseDate(b.DueDateValue())
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return da.Compare(db)
}

func rankOf(priority string) int {
	if r, ok := priorityRank[priority]; ok {
		return r
	}
	return priorityRank[models.DefaultPriority]
}

// FilterTasksByStatus keeps completed or incomplete tasks. Any other status
// returns tasks unchanged.
func FilterTasksByStatus(tasks []models.Task, status string) []models.Task {
	var want bool
	switch status {
	case StatusCompleted:
		want = true
	case StatusIncomplete:
		want = false
	default:
		return tasks
	}

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if bool(t.Completed) == want {
			out = append(out, t)
		}
	}
	return out
}
