// Package board holds the client's local view of the task list.
//
// The board only changes after a server round trip succeeds: callers perform
// the request and then apply its result (or its error) here. A failed action
// sets one user-visible message and leaves the task list as it was.
package board

import (
	"context"
	"errors"
	"strings"

	"taskboard/internal/client"
	"taskboard/internal/tasks"
)

// API is the subset of the task API the client uses.
type API interface {
	List(ctx context.Context) ([]tasks.Task, error)
	Create(ctx context.Context, title, description string) (tasks.Task, error)
	Update(ctx context.Context, id int, u client.Update) (tasks.Task, error)
	Delete(ctx context.Context, id int) error
	Toggle(ctx context.Context, id int) (tasks.Task, error)
}

// Action names a user action for error reporting.
type Action int

const (
	ActionLoad Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
	ActionToggle
)

var failMessages = map[Action]string{
	ActionLoad:   "Failed to load tasks",
	ActionCreate: "Failed to create task",
	ActionUpdate: "Failed to update task",
	ActionDelete: "Failed to delete task",
	ActionToggle: "Failed to toggle task",
}

// MsgTitleRequired is shown when a form is submitted with a blank title.
const MsgTitleRequired = "Title is required"

// ErrTitleRequired is returned by validation before any request is sent.
var ErrTitleRequired = errors.New("title is required")

// Draft is the in-progress edit of one task.
type Draft struct {
	ID          int
	Title       string
	Description string
	Completed   bool
}

// Board is the client's possibly stale copy of the task list.
type Board struct {
	tasks   []tasks.Task
	editing *Draft
	err     string
}

func New() *Board {
	return &Board{}
}

// Tasks returns a copy of the current list.
func (b *Board) Tasks() []tasks.Task {
	out := make([]tasks.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

func (b *Board) Len() int { return len(b.tasks) }

// Task returns the task with id, if present.
func (b *Board) Task(id int) (tasks.Task, bool) {
	if i := b.index(id); i >= 0 {
		return b.tasks[i], true
	}
	return tasks.Task{}, false
}

// Error returns the last user-visible error message, or "".
func (b *Board) Error() string { return b.err }

func (b *Board) ClearError() { b.err = "" }

// Stats counts done and pending tasks.
func (b *Board) Stats() (done, pending int) {
	for _, t := range b.tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// Editing returns the current draft, if an edit is in progress.
func (b *Board) Editing() (Draft, bool) {
	if b.editing == nil {
		return Draft{}, false
	}
	return *b.editing, true
}

// StartEdit opens a draft for id, replacing any other draft.
func (b *Board) StartEdit(id int) bool {
	t, ok := b.Task(id)
	if !ok {
		return false
	}
	b.editing = &Draft{ID: t.ID, Title: t.Title, Description: t.Description, Completed: t.Completed}
	return true
}

func (b *Board) CancelEdit() { b.editing = nil }

// ValidateTitle rejects blank titles locally and records the message.
func (b *Board) ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		b.err = MsgTitleRequired
		return "", ErrTitleRequired
	}
	return title, nil
}

// ---------- results of server round trips ----------

// Loaded replaces the list with the server's.
func (b *Board) Loaded(all []tasks.Task) {
	b.tasks = append([]tasks.Task(nil), all...)
	b.err = ""
	if b.editing != nil && b.index(b.editing.ID) < 0 {
		b.editing = nil
	}
}

// Created appends a new task.
func (b *Board) Created(t tasks.Task) {
	b.tasks = append(b.tasks, t)
	b.err = ""
}

// Replaced swaps the task with the same id; used for update and toggle.
func (b *Board) Replaced(t tasks.Task) {
	if i := b.index(t.ID); i >= 0 {
		b.tasks[i] = t
	}
	if b.editing != nil && b.editing.ID == t.ID {
		b.editing = nil
	}
	b.err = ""
}

// Deleted filters the task out.
func (b *Board) Deleted(id int) {
	out := b.tasks[:0]
	for _, t := range b.tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	b.tasks = out
	if b.editing != nil && b.editing.ID == id {
		b.editing = nil
	}
	b.err = ""
}

// Failed records a generic message for action. State is left untouched.
func (b *Board) Failed(action Action, err error) {
	if err == nil {
		return
	}
	b.err = failMessages[action]
}

func (b *Board) index(id int) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ---------- synchronous helpers ----------

// Load fetches the list and applies the result.
func (b *Board) Load(ctx context.Context, api API) error {
	all, err := api.List(ctx)
	if err != nil {
		b.Failed(ActionLoad, err)
		return err
	}
	b.Loaded(all)
	return nil
}

// Create validates, creates and applies the result.
func (b *Board) Create(ctx context.Context, api API, title, description string) error {
	title, err := b.ValidateTitle(title)
	if err != nil {
		return err
	}
	t, err := api.Create(ctx, title, strings.TrimSpace(description))
	if err != nil {
		b.Failed(ActionCreate, err)
		return err
	}
	b.Created(t)
	return nil
}

// SaveEdit sends the draft with the given title and description.
func (b *Board) SaveEdit(ctx context.Context, api API, title, description string) error {
	d, ok := b.Editing()
	if !ok {
		return nil
	}
	title, err := b.ValidateTitle(title)
	if err != nil {
		return err
	}
	t, err := api.Update(ctx, d.ID, client.Update{
		Title:       title,
		Description: strings.TrimSpace(description),
		Completed:   d.Completed,
	})
	if err != nil {
		b.Failed(ActionUpdate, err)
		return err
	}
	b.Replaced(t)
	return nil
}

// Toggle flips a task on the server and applies the result.
func (b *Board) Toggle(ctx context.Context, api API, id int) error {
	t, err := api.Toggle(ctx, id)
	if err != nil {
		b.Failed(ActionToggle, err)
		return err
	}
	b.Replaced(t)
	return nil
}

// Delete removes a task on the server and applies the result.
func (b *Board) Delete(ctx context.Context, api API, id int) error {
	if err := api.Delete(ctx, id); err != nil {
		b.Failed(ActionDelete, err)
		return err
	}
	b.Deleted(id)
	return nil
}
