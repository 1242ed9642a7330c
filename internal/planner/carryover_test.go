package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/dayplan/internal/models"
)

func TestCarryOver_RejectsCompletedTask(t *testing.T) {
	done := seedTask("done", "2024-01-01", "Finished")
	done.Completion, done.Status = 100, models.TaskStatusCompleted
	f := newFixture(t, done)

	_, err := f.engine.CarryOverTask(f.ctx, "done", "2024-01-02", "")
	require.ErrorIs(t, err, ErrCarryOverCompleted)
	assert.Equal(t, "cannot carry over completed task", Notice(err))

	assert.Nil(t, f.get("done").CarriedOverTo)
	assert.Len(t, f.stored(), 1)
	assert.Zero(t, f.store.applyCalls())
}

func TestCarryOver_Preconditions(t *testing.T) {
	closed := seedTask("closed", "2024-01-01", "Moved")
	closed.CarriedOverTo = models.StringPtr("2024-01-02")
	cancelled := seedTask("cancelled", "2024-01-01", "Dropped")
	cancelled.Status = models.TaskStatusCancelled
	cancelled.CancelReason = "no longer needed"
	f := newFixture(t, closed, cancelled, seedTask("open", "2024-01-01", "Open"))

	tests := []struct {
		name string
		id   string
		date string
		want error
	}{
		{"already carried over", "closed", "2024-01-03", ErrAlreadyCarriedOver},
		{"cancelled", "cancelled", "2024-01-03", ErrInvalidTransition},
		{"missing", "nope", "2024-01-03", ErrTaskNotFound},
		{"bad date", "open", "01/03/2024", ErrInvalidDate},
		{"same date", "open", "2024-01-01", ErrInvalidDate},
		{"earlier date", "open", "2023-12-31", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CarryOverTask(f.ctx, tt.id, tt.date, "")
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}
	assert.Len(t, f.stored(), 3)
}

func TestCarryOver_MovesUnfinishedSubtree(t *testing.T) {
	root := seedTask("root", "2024-01-01", "Write report")
	root.Completion, root.Status = 50, models.TaskStatusInProgress
	done := childOf(seedTask("done", "2024-01-01", "Outline"), "root")
	done.Completion, done.Status = 100, models.TaskStatusCompleted
	open := childOf(seedTask("open", "2024-01-01", "Draft"), "root")
	leaf := childOf(seedTask("leaf", "2024-01-01", "Intro"), "open")
	f := newFixture(t, root, done, open, leaf)

	events, cancel := f.engine.Subscribe()
	defer cancel()

	moved, err := f.engine.CarryOverTask(f.ctx, "root", "2024-01-02", "  ran out of time ")
	require.NoError(t, err)

	assert.NotEqual(t, "root", moved.ID)
	assert.Equal(t, "2024-01-02", moved.Date)
	assert.Equal(t, "Write report", moved.Title)
	assert.Nil(t, moved.ParentID)
	require.NotNil(t, moved.CarriedOverFrom)
	assert.Equal(t, "2024-01-01", *moved.CarriedOverFrom)
	assert.Equal(t, "ran out of time", moved.CarryOverReason)
	assert.Equal(t, models.TaskStatusTodo, moved.Status)

	// only the unfinished branch comes along
	children, err := f.engine.Tasks(f.ctx, TaskFilter{ParentID: moved.ID})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Draft", children[0].Title)
	require.NotNil(t, children[0].CarriedOverFrom)

	grandchildren, err := f.engine.Tasks(f.ctx, TaskFilter{ParentID: children[0].ID})
	require.NoError(t, err)
	require.Len(t, grandchildren, 1)
	assert.Equal(t, "Intro", grandchildren[0].Title)

	// originals are closed, the completed branch is untouched
	for _, id := range []string{"root", "open", "leaf"} {
		orig := f.get(id)
		require.NotNil(t, orig.CarriedOverTo, id)
		assert.Equal(t, "2024-01-02", *orig.CarriedOverTo)
	}
	assert.Nil(t, f.get("done").CarriedOverTo)
	assert.Equal(t, "ran out of time", f.get("root").CarryOverReason)

	ev := waitFor(t, events, EventTaskCarriedOver)
	assert.Equal(t, moved.ID, ev.TaskID)
	assert.Equal(t, "2024-01-02", ev.Date)

	assert.Len(t, f.stored(), 7)
	assert.Equal(t, 1, f.store.applyCalls())
}

func TestCarryOver_ClosedTaskRejectsProgress(t *testing.T) {
	f := newFixture(t, seedTask("t", "2024-01-01", "Call bank"))
	_, err := f.engine.CarryOverTask(f.ctx, "t", "2024-01-05", "")
	require.NoError(t, err)

	done := models.TaskStatusCompleted
	_, err = f.engine.UpdateTask(f.ctx, "t", TaskUpdate{Status: &done}, false)
	assert.ErrorIs(t, err, ErrTaskClosed)

	_, err = f.engine.CarryOverTask(f.ctx, "t", "2024-01-06", "")
	assert.ErrorIs(t, err, ErrAlreadyCarriedOver)

	// descriptive fields stay editable
	title := "Call the bank"
	updated, err := f.engine.UpdateTask(f.ctx, "t", TaskUpdate{Title: &title}, false)
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
}

func TestCarryOver_ReusesParentOnTargetDate(t *testing.T) {
	parent := seedTask("p", "2024-01-01", "Errands")
	parent.Completion, parent.Status = 50, models.TaskStatusInProgress
	shop := childOf(seedTask("shop", "2024-01-01", "Groceries"), "p")
	post := childOf(seedTask("post", "2024-01-01", "Post office"), "p")
	post.Completion, post.Status = 100, models.TaskStatusCompleted
	existing := seedTask("p2", "2024-01-02", "Errands")
	f := newFixture(t, parent, shop, post, existing)

	moved, err := f.engine.CarryOverTask(f.ctx, "shop", "2024-01-02", "")
	require.NoError(t, err)

	require.NotNil(t, moved.ParentID)
	assert.Equal(t, "p2", *moved.ParentID)

	roots := f.tasksOn("2024-01-02")
	assert.Len(t, roots, 2, "no second Errands parent on the target date")

	// every remaining child of the old parent is done or carried over
	old := f.get("p")
	assert.Equal(t, models.TaskStatusCompleted, old.Status)
	assert.Equal(t, 100, old.Completion)
}

func TestCarryOver_ClonesParentWhenMissing(t *testing.T) {
	parent := seedTask("p", "2024-01-01", "Errands")
	shop := childOf(seedTask("shop", "2024-01-01", "Groceries"), "p")
	bank := childOf(seedTask("bank", "2024-01-01", "Bank"), "p")
	f := newFixture(t, parent, shop, bank)

	moved, err := f.engine.CarryOverTask(f.ctx, "shop", "2024-01-03", "")
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)

	newParent := f.get(*moved.ParentID)
	assert.NotEqual(t, "p", newParent.ID)
	assert.Equal(t, "Errands", newParent.Title)
	assert.Equal(t, "2024-01-03", newParent.Date)
	require.NotNil(t, newParent.CarriedOverFrom)
	assert.Equal(t, "2024-01-01", *newParent.CarriedOverFrom)
	assert.Equal(t, models.TaskStatusTodo, newParent.Status)

	// bank is still open, so the old parent stays open
	assert.NotEqual(t, models.TaskStatusCompleted, f.get("p").Status)
}

func TestCarryOver_PersistenceFailureRestoresState(t *testing.T) {
	root := seedTask("root", "2024-01-01", "Plan trip")
	child := childOf(seedTask("child", "2024-01-01", "Book hotel"), "root")
	f := newFixture(t, root, child)

	f.store.failWith(errors.New("disk full"))
	_, err := f.engine.CarryOverTask(f.ctx, "root", "2024-01-02", "")
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, "failed to carry over task", Notice(err))

	assert.Nil(t, f.get("root").CarriedOverTo)
	assert.Nil(t, f.get("child").CarriedOverTo)
	assert.Empty(t, f.tasksOn("2024-01-02"))

	f.store.failWith(nil)
	_, err = f.engine.CarryOverTask(f.ctx, "root", "2024-01-02", "")
	require.NoError(t, err)
	assert.Len(t, f.tasksOn("2024-01-02"), 2)
}
