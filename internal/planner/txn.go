package planner

import (
	"github.com/google/uuid"

	"github.com/gurkanbulca/dayplan/internal/models"
)

// txn applies writes to the in-memory state immediately and records them
// in a change set for one atomic store call. rollback restores the state
// when that call fails.
type txn struct {
	s       *state
	now     int64
	changes models.ChangeSet
	undo    []func()
}

func (s *state) begin(now int64) *txn {
	return &txn{s: s, now: now}
}

func (x *txn) insert(t *models.Task) {
	x.s.put(t)
	x.changes.Inserts = append(x.changes.Inserts, t)
	id := t.ID
	x.undo = append(x.undo, func() { x.s.drop(id) })
}

func (x *txn) patch(ids []string, p models.TaskPatch) {
	if len(ids) == 0 || p.IsEmpty() {
		return
	}
	now := x.now
	p.UpdatedAt = &now

	applied := make([]string, 0, len(ids))
	for _, id := range ids {
		old := x.s.get(id)
		if old == nil {
			continue
		}
		next := old.Clone()
		p.ApplyTo(next)
		x.s.replace(old, next)
		x.undo = append(x.undo, func() { x.s.replace(next, old) })
		applied = append(applied, id)
	}
	if len(applied) > 0 {
		x.changes.Patches = append(x.changes.Patches, models.Patch{IDs: applied, Fields: p})
	}
}

func (x *txn) remove(ids []string) {
	for _, id := range ids {
		old := x.s.drop(id)
		if old == nil {
			continue
		}
		x.undo = append(x.undo, func() { x.s.put(old) })
		x.changes.Deletes = append(x.changes.Deletes, id)
	}
}

func (x *txn) rollback() {
	for i := len(x.undo) - 1; i >= 0; i-- {
		x.undo[i]()
	}
	x.undo = nil
	x.changes = models.ChangeSet{}
}

// fresh copies the descriptive fields of src onto a new TODO task at date.
// Hierarchy, recurrence and carry-over links are left for the caller.
func (x *txn) fresh(src *models.Task, date string) *models.Task {
	c := src.Clone()
	c.ID = uuid.NewString()
	c.ParentID = nil
	c.Date = date
	c.Status = models.TaskStatusTodo
	c.Completion = 0
	c.IsRecurring = false
	c.RecurrencePattern = models.PatternNone
	c.RecurrenceEndDate = nil
	c.RecurringParentID = nil
	c.CarriedOverTo = nil
	c.CarriedOverFrom = nil
	c.CarryOverReason = ""
	c.CancelReason = ""
	c.Review = ""
	c.CreatedAt = x.now
	c.UpdatedAt = x.now
	return c
}

// cloneSubtree copies the children of src (recursively) under dst.
// keep filters which children are copied; prepare runs on each clone
// before it is inserted.
func (x *txn) cloneSubtree(src, dst *models.Task, keep func(*models.Task) bool, prepare func(orig, clone *models.Task)) int {
	n := 0
	for _, child := range x.s.childrenOf(src) {
		if keep != nil && !keep(child) {
			continue
		}
		c := x.fresh(child, dst.Date)
		parentID := dst.ID
		c.ParentID = &parentID
		if prepare != nil {
			prepare(child, c)
		}
		x.insert(c)
		n++
		// child may have been replaced by prepare; read it back for its children
		if cur := x.s.get(child.ID); cur != nil {
			child = cur
		}
		n += x.cloneSubtree(child, c, keep, prepare)
	}
	return n
}
