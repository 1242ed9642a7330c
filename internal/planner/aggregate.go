package planner

import (
	"math"

	"github.com/gurkanbulca/dayplan/internal/models"
)

// rollupCompletion is the rounded mean of the children's completion
func rollupCompletion(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Floor(float64(sum)/float64(len(values)) + 0.5))
}

// statusFor derives a status from a completion percentage
func statusFor(completion int) models.TaskStatus {
	switch {
	case completion >= 100:
		return models.TaskStatusCompleted
	case completion > 0:
		return models.TaskStatusInProgress
	default:
		return models.TaskStatusTodo
	}
}

// rollup walks from the task with the given id up through its same-date
// ancestors, recomputing each one from its direct children.
func (x *txn) rollup(id string) {
	t := x.s.get(id)
	seen := map[string]bool{}
	for t != nil && t.ParentID != nil && !seen[t.ID] {
		seen[t.ID] = true
		parent := x.s.get(*t.ParentID)
		if parent == nil || parent.Date != t.Date {
			return
		}
		x.recompute(parent)
		t = x.s.get(parent.ID)
	}
}

// recompute sets parent's completion and status from its children.
// A cancelled parent keeps its status. Parents without children are left alone.
func (x *txn) recompute(parent *models.Task) {
	children := x.s.childrenOf(parent)
	if len(children) == 0 {
		return
	}
	values := make([]int, len(children))
	for i, c := range children {
		values[i] = c.Completion
	}
	completion := rollupCompletion(values)
	status := statusFor(completion)
	if parent.Status == models.TaskStatusCancelled {
		status = models.TaskStatusCancelled
	}
	if parent.Completion == completion && parent.Status == status {
		return
	}
	x.patch([]string{parent.ID}, models.TaskPatch{Completion: &completion, Status: &status})
}
