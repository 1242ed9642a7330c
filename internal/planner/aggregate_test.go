package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/dayplan/internal/models"
)

func TestRollupCompletion(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
		status models.TaskStatus
	}{
		{name: "mixed", values: []int{100, 50, 0}, want: 50, status: models.TaskStatusInProgress},
		{name: "all done", values: []int{100, 100}, want: 100, status: models.TaskStatusCompleted},
		{name: "nothing started", values: []int{0, 0, 0}, want: 0, status: models.TaskStatusTodo},
		{name: "rounds half up", values: []int{0, 1}, want: 1, status: models.TaskStatusInProgress},
		{name: "rounds down", values: []int{100, 0, 0}, want: 33, status: models.TaskStatusInProgress},
		{name: "single child", values: []int{100}, want: 100, status: models.TaskStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rollupCompletion(tt.values)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.status, statusFor(got))
		})
	}
}

func TestAggregation_ParentFollowsChildren(t *testing.T) {
	f := newFixture(t)
	parent := f.create(TaskDraft{Title: "Launch", Date: "2024-01-01"})
	a := f.create(TaskDraft{Title: "Write", ParentID: parent.ID})
	b := f.create(TaskDraft{Title: "Review", ParentID: parent.ID})
	f.create(TaskDraft{Title: "Ship", ParentID: parent.ID})

	f.setCompletion(a.ID, 100)
	f.setCompletion(b.ID, 50)

	got := f.get(parent.ID)
	assert.Equal(t, 50, got.Completion)
	assert.Equal(t, models.TaskStatusInProgress, got.Status)

	// persisted too
	assert.Equal(t, 50, f.stored()[parent.ID].Completion)
}

func TestAggregation_WalksAllAncestors(t *testing.T) {
	f := newFixture(t)
	root := f.create(TaskDraft{Title: "Root", Date: "2024-01-01"})
	mid := f.create(TaskDraft{Title: "Mid", ParentID: root.ID})
	leaf := f.create(TaskDraft{Title: "Leaf", ParentID: mid.ID})
	f.create(TaskDraft{Title: "Sibling", ParentID: root.ID})

	f.setCompletion(leaf.ID, 100)

	assert.Equal(t, 100, f.get(mid.ID).Completion)
	assert.Equal(t, models.TaskStatusCompleted, f.get(mid.ID).Status)
	assert.Equal(t, 50, f.get(root.ID).Completion)
	assert.Equal(t, models.TaskStatusInProgress, f.get(root.ID).Status)
}

func TestAggregation_Idempotent(t *testing.T) {
	parent := seedTask("p", "2024-01-01", "Parent")
	c1 := childOf(seedTask("c1", "2024-01-01", "One"), "p")
	c1.Completion, c1.Status = 100, models.TaskStatusCompleted
	c2 := childOf(seedTask("c2", "2024-01-01", "Two"), "p")
	c2.Completion, c2.Status = 50, models.TaskStatusInProgress
	c3 := childOf(seedTask("c3", "2024-01-01", "Three"), "p")

	s := newState([]*models.Task{parent, c1, c2, c3})

	first := s.begin(1)
	first.rollup("c2")
	require.Len(t, first.changes.Patches, 1)
	after := s.get("p")
	assert.Equal(t, 50, after.Completion)
	assert.Equal(t, models.TaskStatusInProgress, after.Status)

	second := s.begin(2)
	second.rollup("c2")
	assert.True(t, second.changes.IsEmpty())
	assert.Equal(t, after, s.get("p"))
}

func TestAggregation_IgnoresOtherDates(t *testing.T) {
	parent := seedTask("p", "2024-01-01", "Parent")
	// same parent id but a different date: belongs to another instance
	stray := childOf(seedTask("c", "2024-01-02", "Stray"), "p")
	stray.Completion, stray.Status = 100, models.TaskStatusCompleted

	s := newState([]*models.Task{parent, stray})
	x := s.begin(1)
	x.rollup("c")

	assert.True(t, x.changes.IsEmpty())
	assert.Empty(t, s.childrenOf(parent))
}

func TestAggregation_CancelledParentKeepsStatus(t *testing.T) {
	parent := seedTask("p", "2024-01-01", "Parent")
	parent.Status = models.TaskStatusCancelled
	parent.CancelReason = "dropped"
	child := childOf(seedTask("c", "2024-01-01", "Child"), "p")
	child.Completion, child.Status = 40, models.TaskStatusInProgress

	s := newState([]*models.Task{parent, child})
	x := s.begin(1)
	x.rollup("c")

	assert.Equal(t, 40, s.get("p").Completion)
	assert.Equal(t, models.TaskStatusCancelled, s.get("p").Status)
}
