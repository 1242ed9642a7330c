package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/dayplan/internal/models"
)

func TestMemoryTaskRepository_FetchReturnsCopies(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	require.NoError(t, repo.InsertTasks(ctx, []*models.Task{
		newTask("b", "alice", "2024-01-02", "B"),
		newTask("a", "alice", "2024-01-01", "A"),
		newTask("x", "bob", "2024-01-01", "X"),
	}))

	got, err := repo.FetchTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	got[0].Title = "mutated"
	again, err := repo.FetchTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Title)
}

func TestMemoryTaskRepository_Apply(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()
	require.NoError(t, repo.InsertTasks(ctx, []*models.Task{
		newTask("keep", "alice", "2024-01-01", "Keep"),
		newTask("drop", "alice", "2024-01-01", "Drop"),
	}))

	pct := 60
	require.NoError(t, repo.Apply(ctx, &models.ChangeSet{
		Inserts: []*models.Task{newTask("new", "alice", "2024-01-01", "New")},
		Patches: []models.Patch{{IDs: []string{"keep", "gone"}, Fields: models.TaskPatch{Completion: &pct}}},
		Deletes: []string{"drop"},
	}))

	assert.Equal(t, 2, repo.Len())
	got, err := repo.FetchTasks(ctx, "alice")
	require.NoError(t, err)
	for _, task := range got {
		if task.ID == "keep" {
			assert.Equal(t, 60, task.Completion)
		}
	}
}

func TestMemoryTaskRepository_ApplyIsAtomic(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()
	require.NoError(t, repo.InsertTasks(ctx, []*models.Task{newTask("a", "alice", "2024-01-01", "A")}))

	title := "Renamed"
	err := repo.Apply(ctx, &models.ChangeSet{
		Inserts: []*models.Task{newTask("b", "alice", "2024-01-01", "B")},
		Patches: []models.Patch{
			{IDs: []string{"a"}, Fields: models.TaskPatch{Title: &title}},
			{IDs: []string{"missing"}, Fields: models.TaskPatch{Title: &title}},
		},
	})
	require.ErrorIs(t, err, ErrTaskNotFound)
	assert.Equal(t, 1, repo.Len())

	err = repo.Apply(ctx, &models.ChangeSet{Inserts: []*models.Task{newTask("a", "alice", "2024-01-01", "Dup")}})
	require.Error(t, err)

	got, err := repo.FetchTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Title)
}

func TestMemoryTaskRepository_UpdateAndDelete(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()
	require.NoError(t, repo.InsertTasks(ctx, []*models.Task{
		newTask("a", "alice", "2024-01-01", "A"),
		newTask("b", "alice", "2024-01-01", "B"),
	}))

	title := "A2"
	require.NoError(t, repo.UpdateTask(ctx, "a", models.TaskPatch{Title: &title}))
	assert.ErrorIs(t, repo.UpdateTask(ctx, "zzz", models.TaskPatch{Title: &title}), ErrTaskNotFound)

	done := models.TaskStatusCompleted
	require.NoError(t, repo.UpdateTasks(ctx, []string{"a", "b", "zzz"}, models.TaskPatch{Status: &done}))

	got, err := repo.FetchTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, task := range got {
		assert.Equal(t, models.TaskStatusCompleted, task.Status)
		if task.ID == "a" {
			assert.Equal(t, "A2", task.Title)
		}
	}

	require.NoError(t, repo.DeleteTask(ctx, "a"))
	assert.ErrorIs(t, repo.DeleteTask(ctx, "a"), ErrTaskNotFound)
	require.NoError(t, repo.DeleteTasks(ctx, []string{"b"}))
	assert.Zero(t, repo.Len())
}
