package planner

import (
	"fmt"

	"github.com/gurkanbulca/dayplan/internal/models"
)

func unfinished(t *models.Task) bool {
	return !t.IsClosed() &&
		t.Completion < 100 &&
		t.Status != models.TaskStatusCompleted &&
		t.Status != models.TaskStatusCancelled
}

// carryOver moves an unfinished task and its unfinished subtree to newDate.
// The original is closed by setting CarriedOverTo.
func (e *Engine) carryOver(x *txn, id, newDate, reason string) (*models.Task, error) {
	t := x.s.get(id)
	if t == nil {
		return nil, fmt.Errorf("carry over %s: %w", id, ErrTaskNotFound)
	}
	if t.IsClosed() {
		return nil, fmt.Errorf("carry over %s: %w", id, ErrAlreadyCarriedOver)
	}
	if t.Completion >= 100 || t.Status == models.TaskStatusCompleted {
		return nil, fmt.Errorf("carry over %s: %w", id, ErrCarryOverCompleted)
	}
	if t.Status == models.TaskStatusCancelled {
		return nil, fmt.Errorf("carry over %s: %w: task is cancelled", id, ErrInvalidTransition)
	}
	if _, err := parseDate(newDate); err != nil {
		return nil, err
	}
	if newDate == t.Date {
		return nil, fmt.Errorf("%w: task is already on %s", ErrInvalidDate, newDate)
	}
	if newDate < t.Date {
		return nil, fmt.Errorf("%w: carry over moves forward, %s is before %s", ErrInvalidDate, newDate, t.Date)
	}

	var parent *models.Task
	if t.ParentID != nil {
		parent = x.s.get(*t.ParentID)
	}

	var targetParentID *string
	if parent != nil {
		if existing := findRoot(x.s, newDate, parent.Title); existing != nil {
			targetParentID = &existing.ID
		} else {
			clone := x.fresh(parent, newDate)
			from := parent.Date
			clone.CarriedOverFrom = &from
			x.insert(clone)
			targetParentID = &clone.ID
		}
	}

	moved := x.fresh(t, newDate)
	moved.ParentID = targetParentID
	from := t.Date
	moved.CarriedOverFrom = &from
	moved.CarryOverReason = reason
	x.insert(moved)

	x.cloneSubtree(t, moved, unfinished, func(orig, clone *models.Task) {
		origDate := orig.Date
		clone.CarriedOverFrom = &origDate
		to := newDate
		x.patch([]string{orig.ID}, models.TaskPatch{CarriedOverTo: &to})
	})

	to := newDate
	x.patch([]string{t.ID}, models.TaskPatch{CarriedOverTo: &to, CarryOverReason: &reason})

	if parent != nil && parent.Date == t.Date {
		x.completeIfSettled(parent.ID)
	}
	x.rollup(moved.ID)

	return moved, nil
}

// findRoot returns an open root task on date with the given title
func findRoot(s *state, date, title string) *models.Task {
	for _, r := range s.rootsOn(date) {
		if r.Title == title && !r.IsClosed() {
			return r
		}
	}
	return nil
}

// completeIfSettled completes a parent once every child is either
// completed or carried over, then refreshes the ancestors above it.
func (x *txn) completeIfSettled(parentID string) {
	parent := x.s.get(parentID)
	if parent == nil || parent.Status == models.TaskStatusCompleted {
		return
	}
	for _, c := range x.s.childrenOf(parent) {
		if c.Status != models.TaskStatusCompleted && !c.IsClosed() {
			return
		}
	}
	status := models.TaskStatusCompleted
	completion := 100
	x.patch([]string{parent.ID}, models.TaskPatch{Status: &status, Completion: &completion})
	x.rollup(parent.ID)
}
