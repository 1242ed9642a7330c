package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gurkanbulca/dayplan/internal/models"
)

// MemoryTaskRepository keeps tasks in process memory. It is used by tests
// and by the server when no database is configured.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[string]*models.Task),
	}
}

func (r *MemoryTaskRepository) FetchTasks(_ context.Context, userID string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Task, 0)
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

func (r *MemoryTaskRepository) InsertTasks(ctx context.Context, tasks []*models.Task) error {
	return r.Apply(ctx, &models.ChangeSet{Inserts: tasks})
}

func (r *MemoryTaskRepository) UpdateTask(ctx context.Context, id string, fields models.TaskPatch) error {
	return r.Apply(ctx, &models.ChangeSet{Patches: []models.Patch{{IDs: []string{id}, Fields: fields}}})
}

// UpdateTasks applies the same fields to every id. Ids that no longer exist are skipped.
func (r *MemoryTaskRepository) UpdateTasks(_ context.Context, ids []string, fields models.TaskPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if t, ok := r.tasks[id]; ok {
			fields.ApplyTo(t)
		}
	}
	return nil
}

func (r *MemoryTaskRepository) DeleteTask(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("delete task %s: %w", id, ErrTaskNotFound)
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) DeleteTasks(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.tasks, id)
	}
	return nil
}

// Apply stages the change set on a copy and swaps it in only when every
// write succeeded.
func (r *MemoryTaskRepository) Apply(_ context.Context, cs *models.ChangeSet) error {
	if cs.IsEmpty() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	staged := make(map[string]*models.Task, len(r.tasks)+len(cs.Inserts))
	for id, t := range r.tasks {
		staged[id] = t
	}

	for _, t := range cs.Inserts {
		if _, exists := staged[t.ID]; exists {
			return fmt.Errorf("insert task %s: duplicate id", t.ID)
		}
		staged[t.ID] = t.Clone()
	}

	for _, p := range cs.Patches {
		for _, id := range p.IDs {
			t, ok := staged[id]
			if !ok {
				if len(p.IDs) == 1 {
					return fmt.Errorf("update task %s: %w", id, ErrTaskNotFound)
				}
				continue
			}
			c := t.Clone()
			p.Fields.ApplyTo(c)
			staged[id] = c
		}
	}

	for _, id := range cs.Deletes {
		delete(staged, id)
	}

	r.tasks = staged
	return nil
}

// Len returns the number of stored tasks
func (r *MemoryTaskRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}
