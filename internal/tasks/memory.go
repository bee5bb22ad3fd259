package tasks

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps tasks for the lifetime of the process.
// Ids come from a counter and are never reused.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[int]Task
	nextID int
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:  make(map[int]Task),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Seed loads the sample tasks shown on a fresh install.
func (s *MemoryStore) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := []Task{
		{Title: "Learn Flask", Description: "Build a REST API with Flask", CreatedAt: day.Add(10 * time.Hour)},
		{Title: "Learn React", Description: "Create a frontend with React", CreatedAt: day.Add(11 * time.Hour)},
		{Title: "Setup CI/CD", Description: "Configure GitHub Actions", Completed: true, CreatedAt: day.Add(12 * time.Hour)},
	}
	for _, t := range samples {
		t.ID = s.nextID
		s.tasks[t.ID] = t
		s.nextID++
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) Create(ctx context.Context, in NewTask) (Task, error) {
	in, err := in.normalize()
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:          s.nextID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		CreatedAt:   s.now(),
	}
	s.tasks[t.ID] = t
	s.nextID++
	return t, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int, p Patch) (Task, error) {
	if err := p.validate(); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	t = p.apply(t)
	s.tasks[id] = t
	return t, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) Toggle(ctx context.Context, id int) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	t.Completed = !t.Completed
	s.tasks[id] = t
	return t, nil
}
