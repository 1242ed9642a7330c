// internal/middleware/validation.go
package middleware

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
	"github.com/gurkanbulca/dayplan/internal/models"
)

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	MaxTitleLength       int
	MaxDescriptionLength int
	MaxReasonLength      int
	MaxOccurrences       int
	MaxDuration          int
	MaxPlanItems         int
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxTitleLength:       200,
		MaxDescriptionLength: 5000,
		MaxReasonLength:      1000,
		MaxOccurrences:       366,
		MaxDuration:          24 * 60,
		MaxPlanItems:         200,
	}
}

// ValidationInterceptor rejects malformed task requests before they reach the planner
type ValidationInterceptor struct {
	config *ValidationConfig
}

// NewValidationInterceptor creates a new validation interceptor
func NewValidationInterceptor(config *ValidationConfig) *ValidationInterceptor {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &ValidationInterceptor{
		config: config,
	}
}

// Unary returns a unary server interceptor for validation
func (v *ValidationInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if err := v.validateRequest(req); err != nil {
			return nil, err
		}

		return handler(ctx, req)
	}
}

// Stream returns a stream server interceptor for validation
func (v *ValidationInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		// WatchTasks takes no arguments
		return handler(srv, stream)
	}
}

func (v *ValidationInterceptor) validateRequest(req interface{}) error {
	var errs []string

	switch r := req.(type) {
	case *taskv1.CreateTaskRequest:
		errs = v.validateCreateTask(r)
	case *taskv1.UpdateTaskRequest:
		errs = v.validateUpdateTask(r)
	case *taskv1.GetTaskRequest:
		errs = requireID(r.Id)
	case *taskv1.DeleteTaskRequest:
		errs = requireID(r.Id)
	case *taskv1.EndSeriesRequest:
		errs = requireID(r.Id)
	case *taskv1.ListTasksRequest:
		errs = v.validateListTasks(r)
	case *taskv1.CarryOverTaskRequest:
		errs = requireID(r.Id)
		errs = append(errs, checkDate("new_date", r.NewDate, true)...)
		if len(r.Reason) > v.config.MaxReasonLength {
			errs = append(errs, fmt.Sprintf("reason too long (max %d characters)", v.config.MaxReasonLength))
		}
	case *taskv1.ExtendSeriesRequest:
		errs = requireID(r.Id)
		errs = append(errs, v.checkOccurrences(r.Occurrences, true)...)
	case *taskv1.ReparentTaskRequest:
		errs = requireID(r.Id)
		if r.ParentId != "" && !isValidUUID(r.ParentId) {
			errs = append(errs, "invalid parent ID format")
		}
	case *taskv1.ImportPlanRequest:
		errs = v.validateImportPlan(r)
	}

	if len(errs) > 0 {
		return status.Error(codes.InvalidArgument, strings.Join(errs, "; "))
	}
	return nil
}

func (v *ValidationInterceptor) validateCreateTask(req *taskv1.CreateTaskRequest) []string {
	var errs []string

	errs = append(errs, v.checkTitle(req.Title)...)
	if len(req.Description) > v.config.MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("description too long (max %d characters)", v.config.MaxDescriptionLength))
	}
	errs = append(errs, checkDate("date", req.Date, false)...)
	errs = append(errs, checkStartTime(req.StartTime)...)
	errs = append(errs, v.checkDuration(req.Duration)...)
	if req.ParentId != "" && !isValidUUID(req.ParentId) {
		errs = append(errs, "invalid parent ID format")
	}
	if req.Status != "" {
		errs = append(errs, checkStatus(req.Status)...)
		if models.TaskStatus(req.Status) == models.TaskStatusCancelled {
			errs = append(errs, "new tasks cannot start cancelled")
		}
	}
	errs = append(errs, checkCompletion(req.Completion)...)

	if req.IsRecurring {
		errs = append(errs, checkPattern(req.RecurrencePattern, true)...)
		errs = append(errs, checkDate("recurrence_end_date", req.RecurrenceEndDate, false)...)
		if req.Occurrences != 0 {
			errs = append(errs, v.checkOccurrences(req.Occurrences, true)...)
		}
	} else if req.RecurrencePattern != "" || req.RecurrenceEndDate != "" || req.Occurrences != 0 {
		errs = append(errs, "recurrence fields require is_recurring")
	}
	return errs
}

func (v *ValidationInterceptor) validateUpdateTask(req *taskv1.UpdateTaskRequest) []string {
	errs := requireID(req.Id)

	if req.Title != nil {
		errs = append(errs, v.checkTitle(*req.Title)...)
	}
	if req.Description != nil && len(*req.Description) > v.config.MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("description too long (max %d characters)", v.config.MaxDescriptionLength))
	}
	if req.Date != nil {
		errs = append(errs, checkDate("date", *req.Date, true)...)
	}
	if req.StartTime != nil {
		errs = append(errs, checkStartTime(*req.StartTime)...)
	}
	if req.Duration != nil {
		errs = append(errs, v.checkDuration(*req.Duration)...)
	}
	if req.Status != nil {
		errs = append(errs, checkStatus(*req.Status)...)
		if models.TaskStatus(*req.Status) == models.TaskStatusCancelled &&
			(req.CancelReason == nil || strings.TrimSpace(*req.CancelReason) == "") {
			errs = append(errs, "cancel_reason is required to cancel a task")
		}
	}
	if req.CancelReason != nil && len(*req.CancelReason) > v.config.MaxReasonLength {
		errs = append(errs, fmt.Sprintf("cancel_reason too long (max %d characters)", v.config.MaxReasonLength))
	}
	if req.Completion != nil {
		errs = append(errs, checkCompletion(*req.Completion)...)
	}
	if req.RecurrencePattern != nil {
		errs = append(errs, checkPattern(*req.RecurrencePattern, false)...)
	}
	if req.RecurrenceEndDate != nil {
		errs = append(errs, checkDate("recurrence_end_date", *req.RecurrenceEndDate, false)...)
	}
	if req.Occurrences != 0 {
		errs = append(errs, v.checkOccurrences(req.Occurrences, true)...)
	}
	return errs
}

func (v *ValidationInterceptor) validateListTasks(req *taskv1.ListTasksRequest) []string {
	errs := checkDate("date", req.Date, false)
	if req.ParentId != "" && !isValidUUID(req.ParentId) {
		errs = append(errs, "invalid parent ID format")
	}
	if req.SeriesId != "" && !isValidUUID(req.SeriesId) {
		errs = append(errs, "invalid series ID format")
	}
	return errs
}

func (v *ValidationInterceptor) validateImportPlan(req *taskv1.ImportPlanRequest) []string {
	errs := checkDate("date", req.Date, false)
	if len(req.Items) == 0 {
		errs = append(errs, "plan has no tasks")
	}

	count := 0
	var walk func(items []*taskv1.PlanItem, path string)
	walk = func(items []*taskv1.PlanItem, path string) {
		for i, item := range items {
			count++
			at := fmt.Sprintf("%s[%d]", path, i)
			if item == nil {
				errs = append(errs, at+": empty item")
				continue
			}
			for _, e := range v.checkTitle(item.Title) {
				errs = append(errs, at+": "+e)
			}
			for _, e := range checkStartTime(item.StartTime) {
				errs = append(errs, at+": "+e)
			}
			for _, e := range v.checkDuration(item.Duration) {
				errs = append(errs, at+": "+e)
			}
			walk(item.Subtasks, at+".subtasks")
		}
	}
	walk(req.Items, "items")

	if count > v.config.MaxPlanItems {
		errs = append(errs, fmt.Sprintf("too many plan items (max %d)", v.config.MaxPlanItems))
	}
	return errs
}

// Helper validation functions

func (v *ValidationInterceptor) checkTitle(title string) []string {
	if strings.TrimSpace(title) == "" {
		return []string{"title is required"}
	}
	if len(title) > v.config.MaxTitleLength {
		return []string{fmt.Sprintf("title too long (max %d characters)", v.config.MaxTitleLength)}
	}
	return nil
}

func (v *ValidationInterceptor) checkDuration(minutes int32) []string {
	if minutes < 0 || int(minutes) > v.config.MaxDuration {
		return []string{fmt.Sprintf("duration must be between 0 and %d minutes", v.config.MaxDuration)}
	}
	return nil
}

func (v *ValidationInterceptor) checkOccurrences(n int32, required bool) []string {
	if n == 0 && !required {
		return nil
	}
	if n < 1 || int(n) > v.config.MaxOccurrences {
		return []string{fmt.Sprintf("occurrences must be between 1 and %d", v.config.MaxOccurrences)}
	}
	return nil
}

func requireID(id string) []string {
	if id == "" {
		return []string{"task ID is required"}
	}
	if !isValidUUID(id) {
		return []string{"invalid task ID format"}
	}
	return nil
}

func checkDate(field, value string, required bool) []string {
	if value == "" {
		if required {
			return []string{field + " is required"}
		}
		return nil
	}
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return []string{field + " must be YYYY-MM-DD"}
	}
	return nil
}

func checkStartTime(value string) []string {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("15:04", value); err != nil {
		return []string{"start_time must be HH:MM"}
	}
	return nil
}

func checkStatus(value string) []string {
	if !models.TaskStatus(value).Valid() {
		return []string{fmt.Sprintf("unknown status %q", value)}
	}
	return nil
}

func checkPattern(value string, required bool) []string {
	if value == "" && !required {
		return nil
	}
	if !models.RecurrencePattern(value).Valid() {
		return []string{fmt.Sprintf("unknown recurrence pattern %q", value)}
	}
	return nil
}

func checkCompletion(value int32) []string {
	if value < 0 || value > 100 {
		return []string{"completion must be between 0 and 100"}
	}
	return nil
}

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// isValidUUID checks if a string is a valid UUID format
func isValidUUID(s string) bool {
	return uuidRegex.MatchString(s)
}
