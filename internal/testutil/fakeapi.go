// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"taskboard/internal/client"
	"taskboard/internal/tasks"
)

// FakeAPI is an in-memory implementation of board.API for testing.
// It is backed by a real MemoryStore so validation and not-found behave like the server.
type FakeAPI struct {
	Store *tasks.MemoryStore

	mu    sync.Mutex
	calls []string

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
	ToggleErr error
}

// NewFakeAPI creates a FakeAPI with an empty store.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{Store: tasks.NewMemoryStore()}
}

// AddTask adds a task directly to the backing store.
func (f *FakeAPI) AddTask(title, description string, completed bool) tasks.Task {
	t, err := f.Store.Create(context.Background(), tasks.NewTask{
		Title:       title,
		Description: description,
		Completed:   completed,
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Calls returns the names of the methods called so far.
func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

// List implements board.API.
func (f *FakeAPI) List(ctx context.Context) ([]tasks.Task, error) {
	f.record("List")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Store.List(ctx)
}

// Create implements board.API.
func (f *FakeAPI) Create(ctx context.Context, title, description string) (tasks.Task, error) {
	f.record("Create")
	if f.CreateErr != nil {
		return tasks.Task{}, f.CreateErr
	}
	return f.Store.Create(ctx, tasks.NewTask{Title: title, Description: description})
}

// Update implements board.API.
func (f *FakeAPI) Update(ctx context.Context, id int, u client.Update) (tasks.Task, error) {
	f.record("Update")
	if f.UpdateErr != nil {
		return tasks.Task{}, f.UpdateErr
	}
	return f.Store.Update(ctx, id, tasks.Patch{
		Title:       &u.Title,
		Description: &u.Description,
		Completed:   &u.Completed,
	})
}

// Delete implements board.API.
func (f *FakeAPI) Delete(ctx context.Context, id int) error {
	f.record("Delete")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	return f.Store.Delete(ctx, id)
}

// Toggle implements board.API.
func (f *FakeAPI) Toggle(ctx context.Context, id int) (tasks.Task, error) {
	f.record("Toggle")
	if f.ToggleErr != nil {
		return tasks.Task{}, f.ToggleErr
	}
	return f.Store.Toggle(ctx, id)
}
