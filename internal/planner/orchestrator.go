package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gurkanbulca/dayplan/internal/models"
)

// TaskDraft describes a task to create
type TaskDraft struct {
	Title       string
	Description string
	Priority    string
	// Date defaults to the parent's date for subtasks, otherwise today.
	Date      string
	StartTime string
	Duration  int
	ParentID  string

	Status     models.TaskStatus
	Completion int

	IsRecurring       bool
	RecurrencePattern models.RecurrencePattern
	RecurrenceEndDate string
	// Occurrences caps the instances generated up front; 0 fills the
	// series up to its end date or the horizon.
	Occurrences int
}

// TaskUpdate is a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *string
	Review      *string

	Date      *string
	StartTime *string
	Duration  *int

	Status       *models.TaskStatus
	Completion   *int
	CancelReason *string

	IsRecurring       *bool
	RecurrencePattern *models.RecurrencePattern
	RecurrenceEndDate *string
	// Occurrences applies when the update turns a plain task into a series.
	Occurrences int
}

func (u TaskUpdate) touchesProgress() bool {
	return u.Status != nil || u.Completion != nil
}

// CreateTask adds a task. A recurring root task also gets its instances.
func (e *Engine) CreateTask(ctx context.Context, d TaskDraft) (*models.Task, error) {
	var out *models.Task
	err := e.do(ctx, func() error {
		x := e.begin()
		t, instances, err := e.createTask(x, d)
		if err != nil {
			x.rollback()
			return err
		}
		if err := e.commit(ctx, x, "failed to add task"); err != nil {
			return err
		}
		out = e.state.get(t.ID).Clone()
		e.emit(Event{Type: EventTaskCreated, Task: out})
		if len(instances) > 0 {
			e.emit(Event{Type: EventSeriesExtended, TaskID: t.ID, Count: len(instances)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) createTask(x *txn, d TaskDraft) (*models.Task, []*models.Task, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, nil, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}

	date := d.Date
	var parentID *string
	if d.ParentID != "" {
		parent := x.s.get(d.ParentID)
		if parent == nil {
			return nil, nil, fmt.Errorf("%w: parent %s does not exist", ErrInvalidParent, d.ParentID)
		}
		if parent.IsClosed() {
			return nil, nil, fmt.Errorf("add subtask to %s: %w", parent.ID, ErrTaskClosed)
		}
		if date == "" {
			date = parent.Date
		}
		if date != parent.Date {
			return nil, nil, fmt.Errorf("%w: subtasks share their parent's date", ErrInvalidParent)
		}
		pid := parent.ID
		parentID = &pid
	}
	if date == "" {
		date = e.today()
	}
	if _, err := parseDate(date); err != nil {
		return nil, nil, err
	}
	if !validStartTime(d.StartTime) {
		return nil, nil, fmt.Errorf("%w: start time must be HH:MM", ErrInvalidTask)
	}
	if d.Duration < 0 {
		return nil, nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidTask)
	}

	if d.IsRecurring {
		if parentID != nil {
			return nil, nil, fmt.Errorf("%w: subtasks cannot recur", ErrInvalidTask)
		}
		if !d.RecurrencePattern.Valid() {
			return nil, nil, fmt.Errorf("%w: unknown recurrence pattern %q", ErrInvalidTask, d.RecurrencePattern)
		}
		if d.RecurrenceEndDate != "" {
			if _, err := parseDate(d.RecurrenceEndDate); err != nil {
				return nil, nil, err
			}
			if d.RecurrenceEndDate < date {
				return nil, nil, fmt.Errorf("%w: recurrence ends before it starts", ErrInvalidDate)
			}
		}
	}

	var statusIn *models.TaskStatus
	if d.Status != "" {
		statusIn = &d.Status
	}
	var completionIn *int
	if d.Completion != 0 {
		completionIn = &d.Completion
	}
	status, completion, err := normalizeProgress(&models.Task{Status: models.TaskStatusTodo}, statusIn, completionIn, "")
	if err != nil {
		return nil, nil, err
	}

	t := &models.Task{
		ID:          uuid.NewString(),
		UserID:      e.userID,
		ParentID:    parentID,
		Date:        date,
		Status:      status,
		Completion:  completion,
		Title:       title,
		Description: d.Description,
		Priority:    d.Priority,
		CreatedAt:   x.now,
		UpdatedAt:   x.now,
	}
	if d.StartTime != "" {
		st := d.StartTime
		t.StartTime = &st
	}
	if d.Duration > 0 {
		dur := d.Duration
		t.Duration = &dur
	}
	if d.IsRecurring {
		t.IsRecurring = true
		t.RecurrencePattern = d.RecurrencePattern
		if d.RecurrenceEndDate != "" {
			end := d.RecurrenceEndDate
			t.RecurrenceEndDate = &end
		}
	}

	x.insert(t)
	x.rollup(t.ID)

	var instances []*models.Task
	if t.IsRecurring {
		instances, err = e.generateSeries(x, t, d.Occurrences)
		if err != nil {
			return nil, nil, err
		}
	}
	return t, instances, nil
}

// UpdateTask applies a partial update. Status and completion are kept in
// step; completing a task completes its same-date subtree. With
// moveSubtasks the new progress is copied to the direct children as well.
func (e *Engine) UpdateTask(ctx context.Context, id string, u TaskUpdate, moveSubtasks bool) (*models.Task, error) {
	var out *models.Task
	err := e.do(ctx, func() error {
		x := e.begin()
		completed, generated, err := e.updateTask(x, id, u, moveSubtasks)
		if err != nil {
			x.rollback()
			return err
		}
		if err := e.commit(ctx, x, "failed to update task"); err != nil {
			return err
		}
		out = e.state.get(id).Clone()
		e.emit(Event{Type: EventTaskUpdated, Task: out})
		if completed {
			e.emit(Event{Type: EventTaskCompleted, Task: out})
		}
		if generated > 0 {
			e.emit(Event{Type: EventSeriesExtended, TaskID: id, Count: generated})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) updateTask(x *txn, id string, u TaskUpdate, moveSubtasks bool) (completed bool, generated int, err error) {
	t := x.s.get(id)
	if t == nil {
		return false, 0, fmt.Errorf("update %s: %w", id, ErrTaskNotFound)
	}
	if t.IsClosed() && (u.touchesProgress() || u.Date != nil) {
		return false, 0, fmt.Errorf("update %s: %w", id, ErrTaskClosed)
	}

	var p models.TaskPatch
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return false, 0, fmt.Errorf("%w: title is required", ErrInvalidTask)
		}
		p.Title = &title
	}
	p.Description = u.Description
	p.Priority = u.Priority
	p.Review = u.Review

	if u.StartTime != nil {
		if !validStartTime(*u.StartTime) {
			return false, 0, fmt.Errorf("%w: start time must be HH:MM", ErrInvalidTask)
		}
		p.StartTime = u.StartTime
	}
	if u.Duration != nil {
		if *u.Duration < 0 {
			return false, 0, fmt.Errorf("%w: duration cannot be negative", ErrInvalidTask)
		}
		p.Duration = u.Duration
	}

	moveDate := false
	if u.Date != nil && *u.Date != t.Date {
		if _, err := parseDate(*u.Date); err != nil {
			return false, 0, err
		}
		if !t.IsRoot() {
			return false, 0, fmt.Errorf("%w: subtasks follow their parent's date", ErrInvalidDate)
		}
		p.Date = u.Date
		moveDate = true
	}

	var status models.TaskStatus
	var completion int
	if u.touchesProgress() {
		reason := t.CancelReason
		if u.CancelReason != nil {
			reason = strings.TrimSpace(*u.CancelReason)
		}
		status, completion, err = normalizeProgress(t, u.Status, u.Completion, reason)
		if err != nil {
			return false, 0, err
		}
		p.Status = &status
		p.Completion = &completion
		if status == models.TaskStatusCancelled && u.CancelReason != nil {
			p.CancelReason = &reason
		}
		completed = status == models.TaskStatusCompleted && t.Status != models.TaskStatusCompleted
	} else if u.CancelReason != nil {
		p.CancelReason = u.CancelReason
	}

	convert := false
	if u.IsRecurring != nil || u.RecurrencePattern != nil || u.RecurrenceEndDate != nil {
		if !t.IsRoot() {
			return false, 0, fmt.Errorf("%w: subtasks cannot recur", ErrInvalidTask)
		}
		if u.RecurrencePattern != nil && *u.RecurrencePattern != models.PatternNone && !u.RecurrencePattern.Valid() {
			return false, 0, fmt.Errorf("%w: unknown recurrence pattern %q", ErrInvalidTask, *u.RecurrencePattern)
		}
		if u.RecurrenceEndDate != nil && *u.RecurrenceEndDate != "" {
			if _, err := parseDate(*u.RecurrenceEndDate); err != nil {
				return false, 0, err
			}
		}
		p.IsRecurring = u.IsRecurring
		p.RecurrencePattern = u.RecurrencePattern
		p.RecurrenceEndDate = u.RecurrenceEndDate

		wasSeries := t.IsRecurring && t.RecurrencePattern.Valid()
		convert = !wasSeries && t.RecurringParentID == nil
	}

	// collected before the patch: children are indexed by the old date
	subtree := x.s.subtree(t)[1:]

	x.patch([]string{id}, p)

	if moveDate {
		x.patch(taskIDs(subtree), models.TaskPatch{Date: p.Date})
	}

	if completed {
		var ids []string
		for _, d := range subtree {
			if d.Status != models.TaskStatusCompleted && d.Status != models.TaskStatusCancelled && !d.IsClosed() {
				ids = append(ids, d.ID)
			}
		}
		done, full := models.TaskStatusCompleted, 100
		x.patch(ids, models.TaskPatch{Status: &done, Completion: &full})
	} else if moveSubtasks && u.touchesProgress() && status != models.TaskStatusCancelled {
		var ids []string
		for _, c := range x.s.childrenOf(x.s.get(id)) {
			if c.Status != models.TaskStatusCancelled && !c.IsClosed() {
				ids = append(ids, c.ID)
			}
		}
		x.patch(ids, models.TaskPatch{Status: &status, Completion: &completion})
	}

	if convert {
		cur := x.s.get(id)
		if cur.IsRecurring && cur.RecurrencePattern.Valid() && len(x.s.series[id]) == 0 {
			instances, err := e.generateSeries(x, cur, u.Occurrences)
			if err != nil {
				return false, 0, err
			}
			generated = len(instances)
		}
	}

	x.rollup(id)
	return completed, generated, nil
}

// ReparentTask moves a task under newParentID, or to the root when it is
// empty. Moving a task under its own descendant is rejected.
func (e *Engine) ReparentTask(ctx context.Context, id, newParentID string) (*models.Task, error) {
	var out *models.Task
	err := e.do(ctx, func() error {
		x := e.begin()
		if err := reparent(x, id, newParentID); err != nil {
			x.rollback()
			return err
		}
		if err := e.commit(ctx, x, "failed to move task"); err != nil {
			return err
		}
		out = e.state.get(id).Clone()
		e.emit(Event{Type: EventTaskUpdated, Task: out})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func reparent(x *txn, id, newParentID string) error {
	t := x.s.get(id)
	if t == nil {
		return fmt.Errorf("move %s: %w", id, ErrTaskNotFound)
	}
	if deref(t.ParentID) == newParentID {
		return nil
	}
	if t.IsClosed() {
		return fmt.Errorf("move %s: %w", id, ErrTaskClosed)
	}
	if t.ParentID != nil {
		if old := x.s.get(*t.ParentID); old != nil && old.IsClosed() {
			return fmt.Errorf("move %s out of %s: %w", id, old.ID, ErrTaskClosed)
		}
	}
	if newParentID != "" {
		if newParentID == id {
			return fmt.Errorf("move %s: %w", id, ErrCycle)
		}
		if t.IsRecurring || t.RecurringParentID != nil {
			return fmt.Errorf("%w: subtasks cannot recur", ErrInvalidTask)
		}
		parent := x.s.get(newParentID)
		if parent == nil {
			return fmt.Errorf("%w: parent %s does not exist", ErrInvalidParent, newParentID)
		}
		if parent.IsClosed() {
			return fmt.Errorf("move %s under %s: %w", id, parent.ID, ErrTaskClosed)
		}
		if parent.Date != t.Date {
			return fmt.Errorf("%w: subtasks share their parent's date", ErrInvalidParent)
		}
		seen := map[string]bool{}
		for a := parent; a != nil && !seen[a.ID]; {
			if a.ID == id {
				return fmt.Errorf("move %s under %s: %w", id, newParentID, ErrCycle)
			}
			seen[a.ID] = true
			if a.ParentID == nil {
				break
			}
			a = x.s.get(*a.ParentID)
		}
	}

	oldParentID := t.ParentID
	target := newParentID
	x.patch([]string{id}, models.TaskPatch{ParentID: &target})

	if oldParentID != nil {
		if old := x.s.get(*oldParentID); old != nil {
			x.recompute(old)
			x.rollup(old.ID)
		}
	}
	x.rollup(id)
	return nil
}

// DeleteTask removes a task and its same-date subtree. With deleteAll on a
// recurring task every member of its series goes, each with its subtree.
// It returns the number of removed tasks.
func (e *Engine) DeleteTask(ctx context.Context, id string, deleteAll bool) (int, error) {
	var removed int
	err := e.do(ctx, func() error {
		x := e.begin()
		series, err := deleteTask(x, id, deleteAll)
		if err != nil {
			x.rollback()
			return err
		}
		op := "failed to delete task"
		if series {
			op = "failed to delete series"
		}
		if err := e.commit(ctx, x, op); err != nil {
			return err
		}
		removed = len(x.changes.Deletes)
		if series {
			e.emit(Event{Type: EventSeriesDeleted, TaskID: id, Count: removed})
		} else {
			e.emit(Event{Type: EventTaskDeleted, TaskID: id, Count: removed})
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func deleteTask(x *txn, id string, deleteAll bool) (series bool, err error) {
	t := x.s.get(id)
	if t == nil {
		return false, fmt.Errorf("delete %s: %w", id, ErrTaskNotFound)
	}

	if deleteAll && (t.IsRecurring || t.RecurringParentID != nil) {
		var ids []string
		for _, m := range x.s.seriesMembers(t.SeriesRootID()) {
			ids = append(ids, taskIDs(x.s.subtree(m))...)
		}
		x.remove(ids)
		return true, nil
	}

	x.remove(taskIDs(x.s.subtree(t)))
	if t.ParentID != nil {
		if parent := x.s.get(*t.ParentID); parent != nil {
			x.recompute(parent)
			x.rollup(parent.ID)
		}
	}
	return false, nil
}

// CarryOverTask moves an unfinished task to newDate and returns the new copy
func (e *Engine) CarryOverTask(ctx context.Context, id, newDate, reason string) (*models.Task, error) {
	var out *models.Task
	err := e.do(ctx, func() error {
		x := e.begin()
		moved, err := e.carryOver(x, id, newDate, strings.TrimSpace(reason))
		if err != nil {
			x.rollback()
			return err
		}
		if err := e.commit(ctx, x, "failed to carry over task"); err != nil {
			return err
		}
		out = e.state.get(moved.ID).Clone()
		e.emit(Event{Type: EventTaskCarriedOver, Task: out, Date: newDate})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExtendRecurringSeries adds up to occurrences new instances after the
// series' last date and returns them.
func (e *Engine) ExtendRecurringSeries(ctx context.Context, id string, occurrences int) ([]*models.Task, error) {
	var out []*models.Task
	err := e.do(ctx, func() error {
		x := e.begin()
		created, err := e.extendSeries(x, id, occurrences)
		if err != nil {
			x.rollback()
			return err
		}
		if err := e.commit(ctx, x, "failed to extend series"); err != nil {
			return err
		}
		for _, t := range created {
			out = append(out, e.state.get(t.ID).Clone())
		}
		if len(out) > 0 {
			e.emit(Event{Type: EventSeriesExtended, TaskID: id, Count: len(out)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EndRecurringSeries stops the series from generating past today
func (e *Engine) EndRecurringSeries(ctx context.Context, id string) error {
	return e.do(ctx, func() error {
		x := e.begin()
		ended, err := e.endSeries(x, id)
		if err != nil || !ended {
			return err
		}
		if err := e.commit(ctx, x, "failed to end series"); err != nil {
			return err
		}
		e.emit(Event{Type: EventSeriesEnded, TaskID: id, Date: e.today()})
		return nil
	})
}

// PlanItem is one entry of an imported plan, with optional subtasks
type PlanItem struct {
	Title       string
	Description string
	Priority    string
	StartTime   string
	Duration    int
	Subtasks    []PlanItem
}

// ImportPlan creates a tree of tasks on date in one batch
func (e *Engine) ImportPlan(ctx context.Context, date string, items []PlanItem) ([]*models.Task, error) {
	var out []*models.Task
	err := e.do(ctx, func() error {
		if date == "" {
			date = e.today()
		}
		if _, err := parseDate(date); err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: plan has no tasks", ErrInvalidTask)
		}
		x := e.begin()
		if err := e.importItems(x, date, "", items); err != nil {
			x.rollback()
			return err
		}
		if err := e.commit(ctx, x, "failed to import plan"); err != nil {
			return err
		}
		for _, t := range x.changes.Inserts {
			out = append(out, e.state.get(t.ID).Clone())
		}
		e.emit(Event{Type: EventPlanImported, Count: len(out), Date: date})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) importItems(x *txn, date, parentID string, items []PlanItem) error {
	for _, item := range items {
		t, _, err := e.createTask(x, TaskDraft{
			Title:       item.Title,
			Description: item.Description,
			Priority:    item.Priority,
			Date:        date,
			StartTime:   item.StartTime,
			Duration:    item.Duration,
			ParentID:    parentID,
		})
		if err != nil {
			return err
		}
		if err := e.importItems(x, date, t.ID, item.Subtasks); err != nil {
			return err
		}
	}
	return nil
}

func taskIDs(tasks []*models.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
