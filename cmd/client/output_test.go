package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
)

func TestNotes(t *testing.T) {
	tests := []struct {
		name string
		task *taskv1.Task
		want string
	}{
		{"plain", &taskv1.Task{}, ""},
		{"series root", &taskv1.Task{IsRecurring: true, RecurrencePattern: "WEEKDAYS"}, "repeats weekdays"},
		{"carried over", &taskv1.Task{CarriedOverFrom: "2024-01-01", CarriedOverTo: "2024-01-03"}, "moved to 2024-01-03, from 2024-01-01"},
		{"cancelled instance", &taskv1.Task{RecurringParentId: "x", CancelReason: "sick"}, "series instance, cancelled: sick"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notes(tt.task))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "task not found (NotFound)", describe(status.Error(codes.NotFound, "task not found")))
	assert.Equal(t, "boom", describe(errors.New("boom")))
}
