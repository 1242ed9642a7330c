package planner

import (
	"errors"
)

// Validation errors. Their messages double as the user-facing notification.
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidTask          = errors.New("invalid task")
	ErrInvalidDate          = errors.New("invalid date")
	ErrAlreadyCarriedOver   = errors.New("task was already carried over")
	ErrCarryOverCompleted   = errors.New("cannot carry over completed task")
	ErrTaskClosed           = errors.New("task was carried over and can no longer be changed")
	ErrCycle                = errors.New("cannot move task to its own descendant")
	ErrInvalidParent        = errors.New("invalid parent task")
	ErrCancelReasonRequired = errors.New("a reason is required to cancel a task")
	ErrInvalidTransition    = errors.New("invalid status change")
	ErrNotRecurring         = errors.New("task is not part of a recurring series")
	ErrPersistence          = errors.New("failed to save changes")
	ErrClosed               = errors.New("planner is closed")
)

var validationErrors = []error{
	ErrTaskNotFound,
	ErrInvalidTask,
	ErrInvalidDate,
	ErrAlreadyCarriedOver,
	ErrCarryOverCompleted,
	ErrTaskClosed,
	ErrCycle,
	ErrInvalidParent,
	ErrCancelReasonRequired,
	ErrInvalidTransition,
	ErrNotRecurring,
}

// PersistenceError reports a failed store write. Op is the short
// notification shown to the user, e.g. "failed to add task".
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// IsValidation reports whether err was caused by caller misuse rather than
// a storage failure.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Notice turns an operation error into a short human-readable message
func Notice(err error) string {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Op
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	if errors.Is(err, ErrClosed) {
		return ErrClosed.Error()
	}
	return "something went wrong"
}
