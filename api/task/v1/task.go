// Package taskv1 holds the wire messages of the task.v1.TaskService API.
//
// Messages travel as JSON (see codec.go). Optional fields of UpdateTaskRequest
// are pointers so that an absent field and a zero value stay distinguishable.
package taskv1

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Task struct {
	Id                string                 `json:"id"`
	UserId            string                 `json:"userId"`
	ParentId          string                 `json:"parentId,omitempty"`
	Date              string                 `json:"date"`
	StartTime         string                 `json:"startTime,omitempty"`
	Duration          int32                  `json:"duration,omitempty"`
	Status            string                 `json:"status"`
	Completion        int32                  `json:"completion"`
	IsRecurring       bool                   `json:"isRecurring,omitempty"`
	RecurrencePattern string                 `json:"recurrencePattern,omitempty"`
	RecurrenceEndDate string                 `json:"recurrenceEndDate,omitempty"`
	RecurringParentId string                 `json:"recurringParentId,omitempty"`
	CarriedOverTo     string                 `json:"carriedOverTo,omitempty"`
	CarriedOverFrom   string                 `json:"carriedOverFrom,omitempty"`
	CarryOverReason   string                 `json:"carryOverReason,omitempty"`
	CancelReason      string                 `json:"cancelReason,omitempty"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description,omitempty"`
	Priority          string                 `json:"priority,omitempty"`
	Review            string                 `json:"review,omitempty"`
	CreatedAt         *timestamppb.Timestamp `json:"createdAt,omitempty"`
	UpdatedAt         *timestamppb.Timestamp `json:"updatedAt,omitempty"`
}

type CreateTaskRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	Priority          string `json:"priority,omitempty"`
	Date              string `json:"date,omitempty"`
	StartTime         string `json:"startTime,omitempty"`
	Duration          int32  `json:"duration,omitempty"`
	ParentId          string `json:"parentId,omitempty"`
	Status            string `json:"status,omitempty"`
	Completion        int32  `json:"completion,omitempty"`
	IsRecurring       bool   `json:"isRecurring,omitempty"`
	RecurrencePattern string `json:"recurrencePattern,omitempty"`
	RecurrenceEndDate string `json:"recurrenceEndDate,omitempty"`
	// Occurrences caps the instances generated up front. 0 uses the server default.
	Occurrences int32 `json:"occurrences,omitempty"`
}

type CreateTaskResponse struct {
	Task *Task `json:"task"`
}

type GetTaskRequest struct {
	Id string `json:"id"`
}

type GetTaskResponse struct {
	Task *Task `json:"task"`
}

// ListTasksRequest filters the caller's tasks. SeriesId lists one
// recurring series and ignores the other filters.
type ListTasksRequest struct {
	Date      string `json:"date,omitempty"`
	ParentId  string `json:"parentId,omitempty"`
	RootsOnly bool   `json:"rootsOnly,omitempty"`
	SeriesId  string `json:"seriesId,omitempty"`
}

type ListTasksResponse struct {
	Tasks      []*Task `json:"tasks"`
	TotalCount int32   `json:"totalCount"`
}

type UpdateTaskRequest struct {
	Id string `json:"id"`

	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Review      *string `json:"review,omitempty"`
	Date        *string `json:"date,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	Duration    *int32  `json:"duration,omitempty"`

	Status       *string `json:"status,omitempty"`
	Completion   *int32  `json:"completion,omitempty"`
	CancelReason *string `json:"cancelReason,omitempty"`

	IsRecurring       *bool   `json:"isRecurring,omitempty"`
	RecurrencePattern *string `json:"recurrencePattern,omitempty"`
	RecurrenceEndDate *string `json:"recurrenceEndDate,omitempty"`
	Occurrences       int32   `json:"occurrences,omitempty"`

	// MoveSubtasks copies a progress change to the direct subtasks
	MoveSubtasks bool `json:"moveSubtasks,omitempty"`
}

type UpdateTaskResponse struct {
	Task *Task `json:"task"`
}

type DeleteTaskRequest struct {
	Id string `json:"id"`
	// DeleteAll removes every member of the task's recurring series
	DeleteAll bool `json:"deleteAll,omitempty"`
}

type DeleteTaskResponse struct {
	Deleted int32 `json:"deleted"`
}

type CarryOverTaskRequest struct {
	Id      string `json:"id"`
	NewDate string `json:"newDate"`
	Reason  string `json:"reason,omitempty"`
}

type CarryOverTaskResponse struct {
	Task *Task `json:"task"`
}

type ExtendSeriesRequest struct {
	Id          string `json:"id"`
	Occurrences int32  `json:"occurrences"`
}

type ExtendSeriesResponse struct {
	Tasks []*Task `json:"tasks"`
}

type EndSeriesRequest struct {
	Id string `json:"id"`
}

// ReparentTaskRequest moves a task. An empty ParentId makes it a root task.
type ReparentTaskRequest struct {
	Id       string `json:"id"`
	ParentId string `json:"parentId,omitempty"`
}

type ReparentTaskResponse struct {
	Task *Task `json:"task"`
}

type PlanItem struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Priority    string      `json:"priority,omitempty"`
	StartTime   string      `json:"startTime,omitempty"`
	Duration    int32       `json:"duration,omitempty"`
	Subtasks    []*PlanItem `json:"subtasks,omitempty"`
}

type ImportPlanRequest struct {
	Date  string      `json:"date,omitempty"`
	Items []*PlanItem `json:"items"`
}

type ImportPlanResponse struct {
	Tasks []*Task `json:"tasks"`
}

type WatchTasksRequest struct{}

type TaskEvent struct {
	Type    string                 `json:"type"`
	TaskId  string                 `json:"taskId,omitempty"`
	Task    *Task                  `json:"task,omitempty"`
	Count   int32                  `json:"count,omitempty"`
	Date    string                 `json:"date,omitempty"`
	Message string                 `json:"message,omitempty"`
	At      *timestamppb.Timestamp `json:"at,omitempty"`
}
