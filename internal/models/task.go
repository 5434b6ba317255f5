package models

import "time"

const DefaultPriority = "medium"

type Task struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date"`
	Priority    string    `json:"priority"`
	Completed   Flag      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskInput is the body of a create request. Name stays untyped so a
// non-string value can be rejected as a missing name instead of a JSON error.
type TaskInput struct {
	Name        any     `json:"name"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Completed   *Flag   `json:"completed,omitempty"`
}

// TaskPatch holds the fields of an update. Nil means "leave unchanged".
type TaskPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Completed   *Flag   `json:"completed,omitempty"`
}

func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.DueDate == nil &&
		p.Priority == nil && p.Completed == nil
}

type NewTask struct {
	Name        string
	Description string
	DueDate     *string
	Priority    string
	Completed   bool
}

// Apply returns a copy of t with every supplied field of p written over it.
// ID and CreatedAt are never touched.
func (t Task) Apply(p TaskPatch) Task {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// DueDateValue returns the due date or "" when none is set.
func (t Task) DueDateValue() string {
	if t.DueDate == nil {
		return ""
	}
	return *t.DueDate
}

type DeleteResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
