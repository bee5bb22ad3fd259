package tasks

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
)

// Store owns the authoritative task collection.
type Store interface {
	// List returns all tasks ordered by id.
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id int) (Task, error)
	Create(ctx context.Context, in NewTask) (Task, error)
	Update(ctx context.Context, id int, p Patch) (Task, error)
	Delete(ctx context.Context, id int) error
	// Toggle flips Completed and returns the updated task.
	Toggle(ctx context.Context, id int) (Task, error)
}
