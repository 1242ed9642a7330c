package models

// TaskPatch is a partial update of a task. Nil fields are left untouched.
// For nullable references and dates an empty string clears the value.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Review      *string

	ParentID  *string
	Date      *string
	StartTime *string
	Duration  *int // 0 clears

	Status     *TaskStatus
	Completion *int

	IsRecurring       *bool
	RecurrencePattern *RecurrencePattern
	RecurrenceEndDate *string

	CarriedOverTo   *string
	CarryOverReason *string
	CancelReason    *string

	UpdatedAt *int64
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

// ApplyTo writes every set field of p onto t
func (p TaskPatch) ApplyTo(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Review != nil {
		t.Review = *p.Review
	}
	if p.ParentID != nil {
		t.ParentID = nullable(*p.ParentID)
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.StartTime != nil {
		t.StartTime = nullable(*p.StartTime)
	}
	if p.Duration != nil {
		if *p.Duration == 0 {
			t.Duration = nil
		} else {
			d := *p.Duration
			t.Duration = &d
		}
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Completion != nil {
		t.Completion = *p.Completion
	}
	if p.IsRecurring != nil {
		t.IsRecurring = *p.IsRecurring
	}
	if p.RecurrencePattern != nil {
		t.RecurrencePattern = *p.RecurrencePattern
	}
	if p.RecurrenceEndDate != nil {
		t.RecurrenceEndDate = nullable(*p.RecurrenceEndDate)
	}
	if p.CarriedOverTo != nil {
		t.CarriedOverTo = nullable(*p.CarriedOverTo)
	}
	if p.CarryOverReason != nil {
		t.CarryOverReason = *p.CarryOverReason
	}
	if p.CancelReason != nil {
		t.CancelReason = *p.CancelReason
	}
	if p.UpdatedAt != nil {
		t.UpdatedAt = *p.UpdatedAt
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Patch applies the same fields to every listed task
type Patch struct {
	IDs    []string
	Fields TaskPatch
}

// ChangeSet groups the writes of one operation. Stores apply it atomically:
// inserts first, then patches in order, then deletes.
type ChangeSet struct {
	Inserts []*Task
	Patches []Patch
	Deletes []string
}

// IsEmpty reports whether the change set carries no writes
func (cs *ChangeSet) IsEmpty() bool {
	return cs == nil || (len(cs.Inserts) == 0 && len(cs.Patches) == 0 && len(cs.Deletes) == 0)
}
