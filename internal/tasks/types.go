package tasks

import (
	"strings"
	"time"
)

type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTask is the input of Store.Create.
type NewTask struct {
	Title       string
	Description string
	Completed   bool
}

// Patch is the input of Store.Update. Nil fields keep the stored value.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

func (n NewTask) normalize() (NewTask, error) {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	if n.Title == "" {
		return NewTask{}, ErrTitleRequired
	}
	return n, nil
}

func (p Patch) validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// apply returns t with the patch applied; t itself is not modified.
func (p Patch) apply(t Task) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
