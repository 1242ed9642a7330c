package planner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/dayplan/internal/models"
	"github.com/gurkanbulca/dayplan/internal/repository"
)

const testUser = "user-1"

var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// flakyStore fails Apply while fail is set
type flakyStore struct {
	*repository.MemoryTaskRepository

	mu    sync.Mutex
	fail  error
	calls int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryTaskRepository: repository.NewMemoryTaskRepository()}
}

func (f *flakyStore) failWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *flakyStore) Apply(ctx context.Context, cs *models.ChangeSet) error {
	f.mu.Lock()
	f.calls++
	err := f.fail
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.MemoryTaskRepository.Apply(ctx, cs)
}

func (f *flakyStore) applyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *flakyStore
	engine *Engine
}

func newFixture(t *testing.T, seed ...*models.Task) *fixture {
	return newFixtureWithOptions(t, Options{}, seed...)
}

func newFixtureWithOptions(t *testing.T, opts Options, seed ...*models.Task) *fixture {
	t.Helper()
	ctx := context.Background()
	store := newFlakyStore()
	if len(seed) > 0 {
		require.NoError(t, store.InsertTasks(ctx, seed))
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	e, err := NewEngine(ctx, store, testUser, opts)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return &fixture{t: t, ctx: ctx, store: store, engine: e}
}

func (f *fixture) create(d TaskDraft) *models.Task {
	f.t.Helper()
	task, err := f.engine.CreateTask(f.ctx, d)
	require.NoError(f.t, err)
	return task
}

func (f *fixture) get(id string) *models.Task {
	f.t.Helper()
	task, err := f.engine.Task(f.ctx, id)
	require.NoError(f.t, err)
	return task
}

func (f *fixture) setCompletion(id string, completion int) *models.Task {
	f.t.Helper()
	task, err := f.engine.UpdateTask(f.ctx, id, TaskUpdate{Completion: &completion}, false)
	require.NoError(f.t, err)
	return task
}

func (f *fixture) tasksOn(date string) []*models.Task {
	f.t.Helper()
	tasks, err := f.engine.Tasks(f.ctx, TaskFilter{Date: date})
	require.NoError(f.t, err)
	return tasks
}

func (f *fixture) stored() map[string]*models.Task {
	f.t.Helper()
	tasks, err := f.store.FetchTasks(f.ctx, testUser)
	require.NoError(f.t, err)
	out := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		out[t.ID] = t
	}
	return out
}

func seedTask(id, date, title string) *models.Task {
	return &models.Task{
		ID:        id,
		UserID:    testUser,
		Date:      date,
		Title:     title,
		Status:    models.TaskStatusTodo,
		CreatedAt: testNow.UnixMilli(),
		UpdatedAt: testNow.UnixMilli(),
	}
}

func seedTemplate(id, date string, pattern models.RecurrencePattern) *models.Task {
	t := seedTask(id, date, "Standup")
	t.IsRecurring = true
	t.RecurrencePattern = pattern
	return t
}

func childOf(t *models.Task, parentID string) *models.Task {
	t.ParentID = models.StringPtr(parentID)
	return t
}

func waitFor(t *testing.T, events <-chan Event, typ EventType) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event channel closed before %s", typ)
			if ev.Type == typ {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s event", typ)
			return Event{}
		}
	}
}

func dates(tasks []*models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Date
	}
	return out
}
