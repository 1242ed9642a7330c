package planner

import (
	"fmt"

	"github.com/gurkanbulca/dayplan/internal/models"
)

// normalizeProgress resolves a requested status and/or completion against
// the current task so that COMPLETED and completion 100 always go together.
// CANCELLED is exempt and may hold any completion.
func normalizeProgress(cur *models.Task, status *models.TaskStatus, completion *int, cancelReason string) (models.TaskStatus, int, error) {
	if status != nil && !status.Valid() {
		return "", 0, fmt.Errorf("%w: unknown status %q", ErrInvalidTask, *status)
	}
	if completion != nil && (*completion < 0 || *completion > 100) {
		return "", 0, fmt.Errorf("%w: completion must be between 0 and 100", ErrInvalidTask)
	}

	nextStatus, nextCompletion := cur.Status, cur.Completion
	switch {
	case status != nil && completion != nil:
		nextStatus, nextCompletion = *status, *completion
		switch {
		case nextStatus == models.TaskStatusCancelled:
		case nextStatus == models.TaskStatusCompleted || nextCompletion == 100:
			nextStatus, nextCompletion = models.TaskStatusCompleted, 100
		case nextStatus == models.TaskStatusTodo && nextCompletion > 0:
			nextStatus = models.TaskStatusInProgress
		}
	case status != nil:
		nextStatus = *status
		switch nextStatus {
		case models.TaskStatusCompleted:
			nextCompletion = 100
		case models.TaskStatusTodo:
			nextCompletion = 0
		case models.TaskStatusInProgress:
			if nextCompletion >= 100 {
				nextCompletion = 0
			}
		}
	case completion != nil:
		nextCompletion = *completion
		if cur.Status != models.TaskStatusCancelled {
			nextStatus = statusFor(nextCompletion)
		}
	}

	if cur.Status == models.TaskStatusCancelled && nextStatus != models.TaskStatusCancelled {
		return "", 0, fmt.Errorf("%w: cancelled tasks cannot be reopened", ErrInvalidTransition)
	}
	if nextStatus == models.TaskStatusCancelled && cur.Status != models.TaskStatusCancelled {
		if cur.Status == models.TaskStatusCompleted {
			return "", 0, fmt.Errorf("%w: completed tasks cannot be cancelled", ErrInvalidTransition)
		}
		if cancelReason == "" {
			return "", 0, ErrCancelReasonRequired
		}
	}
	return nextStatus, nextCompletion, nil
}
