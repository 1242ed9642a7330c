package models

import "time"

// TaskStatus is the progress state of a task
type TaskStatus string

// Task status constants
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// RecurrencePattern controls which dates a recurring series lands on
type RecurrencePattern string

// Recurrence pattern constants
const (
	PatternNone     RecurrencePattern = ""
	PatternDaily    RecurrencePattern = "DAILY"
	PatternWeekly   RecurrencePattern = "WEEKLY"
	PatternWeekdays RecurrencePattern = "WEEKDAYS"
	PatternMonthly  RecurrencePattern = "MONTHLY"
)

// Valid reports whether p is a recognized, non-empty pattern
func (p RecurrencePattern) Valid() bool {
	switch p {
	case PatternDaily, PatternWeekly, PatternWeekdays, PatternMonthly:
		return true
	}
	return false
}

// DateLayout is the calendar-day format used for every date column
const DateLayout = "2006-01-02"

type Task struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`

	ParentID *string `db:"parent_id"`

	Date      string  `db:"date"`
	StartTime *string `db:"start_time"`
	Duration  *int    `db:"duration"`

	Status     TaskStatus `db:"status"`
	Completion int        `db:"completion"`

	IsRecurring       bool              `db:"is_recurring"`
	RecurrencePattern RecurrencePattern `db:"recurrence_pattern"`
	RecurrenceEndDate *string           `db:"recurrence_end_date"`
	RecurringParentID *string           `db:"recurring_parent_id"`

	CarriedOverTo   *string `db:"carried_over_to"`
	CarriedOverFrom *string `db:"carried_over_from"`
	CarryOverReason string  `db:"carry_over_reason"`
	CancelReason    string  `db:"cancel_reason"`

	Title       string `db:"title"`
	Description string `db:"description"`
	Priority    string `db:"priority"`
	Review      string `db:"review"`

	CreatedAt int64 `db:"created_at"`
	UpdatedAt int64 `db:"updated_at"`
}

// Clone returns a deep copy of the task
func (t *Task) Clone() *Task {
	c := *t
	c.ParentID = cloneString(t.ParentID)
	c.StartTime = cloneString(t.StartTime)
	c.RecurrenceEndDate = cloneString(t.RecurrenceEndDate)
	c.RecurringParentID = cloneString(t.RecurringParentID)
	c.CarriedOverTo = cloneString(t.CarriedOverTo)
	c.CarriedOverFrom = cloneString(t.CarriedOverFrom)
	if t.Duration != nil {
		d := *t.Duration
		c.Duration = &d
	}
	return &c
}

// IsRoot reports whether the task has no parent
func (t *Task) IsRoot() bool {
	return t.ParentID == nil
}

// IsClosed reports whether the task was superseded by a carry-over
func (t *Task) IsClosed() bool {
	return t.CarriedOverTo != nil
}

// SeriesRootID returns the id of the template the task belongs to, or its own id
func (t *Task) SeriesRootID() string {
	if t.RecurringParentID != nil {
		return *t.RecurringParentID
	}
	return t.ID
}

// Day parses the task date
func (t *Task) Day() (time.Time, error) {
	return time.Parse(DateLayout, t.Date)
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
