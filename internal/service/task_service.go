// internal/service/task_service.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
	"github.com/gurkanbulca/dayplan/internal/middleware"
	"github.com/gurkanbulca/dayplan/internal/models"
	"github.com/gurkanbulca/dayplan/internal/planner"
)

type TaskService struct {
	taskv1.UnimplementedTaskServiceServer
	registry *planner.Registry
	// defaultOccurrences is used when a recurring create asks for none
	defaultOccurrences int
}

func NewTaskService(registry *planner.Registry, defaultOccurrences int) *TaskService {
	return &TaskService{
		registry:           registry,
		defaultOccurrences: defaultOccurrences,
	}
}

// engine resolves the planner of the authenticated caller
func (s *TaskService) engine(ctx context.Context) (*planner.Engine, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}
	e, err := s.registry.Engine(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return e, nil
}

// CreateTask creates a task, or a recurring series with its first instances
func (s *TaskService) CreateTask(ctx context.Context, req *taskv1.CreateTaskRequest) (*taskv1.CreateTaskResponse, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	draft := planner.TaskDraft{
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		Date:              req.Date,
		StartTime:         req.StartTime,
		Duration:          int(req.Duration),
		ParentID:          req.ParentId,
		Status:            models.TaskStatus(req.Status),
		Completion:        int(req.Completion),
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: models.RecurrencePattern(req.RecurrencePattern),
		RecurrenceEndDate: req.RecurrenceEndDate,
		Occurrences:       int(req.Occurrences),
	}
	if draft.IsRecurring && draft.Occurrences == 0 {
		draft.Occurrences = s.defaultOccurrences
	}

	task, err := e.CreateTask(ctx, draft)
	if err != nil {
		return nil, toStatus(err)
	}

	return &taskv1.CreateTaskResponse{Task: convertTask(task)}, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, req *taskv1.GetTaskRequest) (*taskv1.GetTaskResponse, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	task, err := e.Task(ctx, req.Id)
	if err != nil {
		return nil, toStatus(err)
	}

	return &taskv1.GetTaskResponse{Task: convertTask(task)}, nil
}

// ListTasks lists the caller's tasks, or the members of one series
func (s *TaskService) ListTasks(ctx context.Context, req *taskv1.ListTasksRequest) (*taskv1.ListTasksResponse, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	var tasks []*models.Task
	if req.SeriesId != "" {
		tasks, err = e.Series(ctx, req.SeriesId)
	} else {
		tasks, err = e.Tasks(ctx, planner.TaskFilter{
			Date:      req.Date,
			ParentID:  req.ParentId,
			RootsOnly: req.RootsOnly,
		})
	}
	if err != nil {
		return nil, toStatus(err)
	}

	return &taskv1.ListTasksResponse{
		Tasks:      convertTasks(tasks),
		TotalCount: int32(len(tasks)),
	}, nil
}

// UpdateTask applies a partial update
func (s *TaskService) UpdateTask(ctx context.Context, req *taskv1.UpdateTaskRequest) (*taskv1.UpdateTaskResponse, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	task, err := e.UpdateTask(ctx, req.Id, convertUpdate(req), req.MoveSubtasks)
	if err != nil {
		return nil, toStatus(err)
	}

	return &taskv1.UpdateTaskResponse{Task: convertTask(task)}, nil
}

// DeleteTask deletes a task with its subtasks, or a whole series
func (s *TaskService) DeleteTask(ctx context.Context, req *taskv1.DeleteTaskRequest) (*taskv1.DeleteTaskResponse, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	n, err := e.DeleteTask(ctx, req.Id, req.DeleteAll)
	if err != nil {
		return nil, toStatus(err)
	}

	return &taskv1.DeleteTaskResponse{Deleted: int32(n)}, nil
}

// CarryOverTask moves the unfinished part of a task to another day
func (s *TaskService) CarryOverTask(ctx context.Context, req *taskv1.CarryOverTaskRequest) (*taskv1.CarryOverTaskResponse, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	task, err := e.CarryOverTask(ctx, req.Id, req.NewDate, req.Reason)
	if err != nil {
		return nil, toStatus(err)
	}

	return &taskv1.CarryOverTaskResponse{Task: convertTask(task)}, nil
}

func (s *TaskService) ExtendSeries(ctx context.Context, req *taskv1.ExtendSeriesRequest) (*taskv1.ExtendSeriesResponse, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := e.ExtendRecurringSeries(ctx, req.Id, int(req.Occurrences))
	if err != nil {
		return nil, toStatus(err)
	}

	return &taskv1.ExtendSeriesResponse{Tasks: convertTasks(tasks)}, nil
}

func (s *TaskService) EndSeries(ctx context.Context, req *taskv1.EndSeriesRequest) (*emptypb.Empty, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.EndRecurringSeries(ctx, req.Id); err != nil {
		return nil, toStatus(err)
	}

	return &emptypb.Empty{}, nil
}

func (s *TaskService) ReparentTask(ctx context.Context, req *taskv1.ReparentTaskRequest) (*taskv1.ReparentTaskResponse, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	task, err := e.ReparentTask(ctx, req.Id, req.ParentId)
	if err != nil {
		return nil, toStatus(err)
	}

	return &taskv1.ReparentTaskResponse{Task: convertTask(task)}, nil
}

// ImportPlan creates a tree of tasks in one batch
func (s *TaskService) ImportPlan(ctx context.Context, req *taskv1.ImportPlanRequest) (*taskv1.ImportPlanResponse, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := e.ImportPlan(ctx, req.Date, convertPlanItems(req.Items))
	if err != nil {
		return nil, toStatus(err)
	}

	return &taskv1.ImportPlanResponse{Tasks: convertTasks(tasks)}, nil
}

// WatchTasks streams the caller's planner events until the client goes away
func (s *TaskService) WatchTasks(req *taskv1.WatchTasksRequest, stream taskv1.TaskService_WatchTasksServer) error {
	ctx := stream.Context()
	e, err := s.engine(ctx)
	if err != nil {
		return err
	}

	events, unsubscribe := e.Subscribe()
	defer unsubscribe()

	// headers tell the client the subscription is live
	if err := stream.SendHeader(metadata.MD{}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return status.Error(codes.Unavailable, planner.ErrClosed.Error())
			}
			if err := stream.Send(convertEvent(ev)); err != nil {
				log.Printf("[WARN] watch stream for user %s ended: %v", e.UserID(), err)
				return err
			}
		}
	}
}

// toStatus maps planner errors onto gRPC codes. The message is the short
// notice a user would see.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	msg := planner.Notice(err)
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, planner.ErrTaskNotFound):
		return status.Error(codes.NotFound, msg)
	case errors.Is(err, planner.ErrTaskClosed),
		errors.Is(err, planner.ErrAlreadyCarriedOver),
		errors.Is(err, planner.ErrCarryOverCompleted),
		errors.Is(err, planner.ErrInvalidTransition),
		errors.Is(err, planner.ErrNotRecurring):
		return status.Error(codes.FailedPrecondition, msg)
	case planner.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, planner.ErrPersistence):
		log.Printf("[ERROR] %v", err)
		return status.Error(codes.Internal, msg)
	case errors.Is(err, planner.ErrClosed):
		return status.Error(codes.Unavailable, msg)
	default:
		log.Printf("[ERROR] unexpected planner error: %v", err)
		return status.Error(codes.Internal, msg)
	}
}

// Helper functions

func convertTask(t *models.Task) *taskv1.Task {
	if t == nil {
		return nil
	}
	proto := &taskv1.Task{
		Id:                t.ID,
		UserId:            t.UserID,
		ParentId:          deref(t.ParentID),
		Date:              t.Date,
		StartTime:         deref(t.StartTime),
		Status:            string(t.Status),
		Completion:        int32(t.Completion),
		IsRecurring:       t.IsRecurring,
		RecurrencePattern: string(t.RecurrencePattern),
		RecurrenceEndDate: deref(t.RecurrenceEndDate),
		RecurringParentId: deref(t.RecurringParentID),
		CarriedOverTo:     deref(t.CarriedOverTo),
		CarriedOverFrom:   deref(t.CarriedOverFrom),
		CarryOverReason:   t.CarryOverReason,
		CancelReason:      t.CancelReason,
		Title:             t.Title,
		Description:       t.Description,
		Priority:          t.Priority,
		Review:            t.Review,
		CreatedAt:         timestamppb.New(time.UnixMilli(t.CreatedAt)),
		UpdatedAt:         timestamppb.New(time.UnixMilli(t.UpdatedAt)),
	}
	if t.Duration != nil {
		proto.Duration = int32(*t.Duration)
	}
	return proto
}

func convertTasks(tasks []*models.Task) []*taskv1.Task {
	out := make([]*taskv1.Task, len(tasks))
	for i, t := range tasks {
		out[i] = convertTask(t)
	}
	return out
}

func convertUpdate(req *taskv1.UpdateTaskRequest) planner.TaskUpdate {
	u := planner.TaskUpdate{
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		Review:            req.Review,
		Date:              req.Date,
		StartTime:         req.StartTime,
		CancelReason:      req.CancelReason,
		IsRecurring:       req.IsRecurring,
		RecurrenceEndDate: req.RecurrenceEndDate,
		Occurrences:       int(req.Occurrences),
	}
	if req.Duration != nil {
		d := int(*req.Duration)
		u.Duration = &d
	}
	if req.Status != nil {
		st := models.TaskStatus(*req.Status)
		u.Status = &st
	}
	if req.Completion != nil {
		c := int(*req.Completion)
		u.Completion = &c
	}
	if req.RecurrencePattern != nil {
		p := models.RecurrencePattern(*req.RecurrencePattern)
		u.RecurrencePattern = &p
	}
	return u
}

func convertPlanItems(items []*taskv1.PlanItem) []planner.PlanItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]planner.PlanItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, planner.PlanItem{
			Title:       item.Title,
			Description: item.Description,
			Priority:    item.Priority,
			StartTime:   item.StartTime,
			Duration:    int(item.Duration),
			Subtasks:    convertPlanItems(item.Subtasks),
		})
	}
	return out
}

func convertEvent(ev planner.Event) *taskv1.TaskEvent {
	return &taskv1.TaskEvent{
		Type:    string(ev.Type),
		TaskId:  ev.TaskID,
		Task:    convertTask(ev.Task),
		Count:   int32(ev.Count),
		Date:    ev.Date,
		Message: ev.Message,
		At:      timestamppb.New(ev.At),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
