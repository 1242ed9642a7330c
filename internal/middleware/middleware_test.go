package middleware

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
	"github.com/gurkanbulca/dayplan/pkg/auth"
)

func strPtr(s string) *string { return &s }
func int32Ptr(n int32) *int32 { return &n }

var okHandler grpc.UnaryHandler = func(ctx context.Context, req interface{}) (interface{}, error) {
	return ctx, nil
}

func TestValidationInterceptor(t *testing.T) {
	v := NewValidationInterceptor(nil)
	id := uuid.NewString()

	tests := []struct {
		name    string
		req     interface{}
		wantErr string
	}{
		{"valid create", &taskv1.CreateTaskRequest{Title: "Write", Date: "2024-01-01", StartTime: "09:30"}, ""},
		{"missing title", &taskv1.CreateTaskRequest{Title: "  "}, "title is required"},
		{"long title", &taskv1.CreateTaskRequest{Title: strings.Repeat("a", 201)}, "title too long"},
		{"long description", &taskv1.CreateTaskRequest{Title: "x", Description: strings.Repeat("a", 5001)}, "description too long"},
		{"bad date", &taskv1.CreateTaskRequest{Title: "x", Date: "2024/01/01"}, "date must be YYYY-MM-DD"},
		{"bad start time", &taskv1.CreateTaskRequest{Title: "x", StartTime: "9am"}, "start_time must be HH:MM"},
		{"bad completion", &taskv1.CreateTaskRequest{Title: "x", Completion: 101}, "completion must be between 0 and 100"},
		{"create cancelled", &taskv1.CreateTaskRequest{Title: "x", Status: "CANCELLED"}, "cannot start cancelled"},
		{"recurring without pattern", &taskv1.CreateTaskRequest{Title: "x", IsRecurring: true}, "unknown recurrence pattern"},
		{"pattern without recurring", &taskv1.CreateTaskRequest{Title: "x", RecurrencePattern: "DAILY"}, "require is_recurring"},
		{"too many occurrences", &taskv1.CreateTaskRequest{Title: "x", IsRecurring: true, RecurrencePattern: "DAILY", Occurrences: 400}, "occurrences must be between 1 and 366"},
		{"valid recurring", &taskv1.CreateTaskRequest{Title: "x", IsRecurring: true, RecurrencePattern: "WEEKDAYS", Occurrences: 10}, ""},
		{"update bad id", &taskv1.UpdateTaskRequest{Id: "42"}, "invalid task ID format"},
		{"update unknown status", &taskv1.UpdateTaskRequest{Id: id, Status: strPtr("DONE")}, "unknown status"},
		{"cancel without reason", &taskv1.UpdateTaskRequest{Id: id, Status: strPtr("CANCELLED")}, "cancel_reason is required"},
		{"cancel with reason", &taskv1.UpdateTaskRequest{Id: id, Status: strPtr("CANCELLED"), CancelReason: strPtr("blocked")}, ""},
		{"update completion", &taskv1.UpdateTaskRequest{Id: id, Completion: int32Ptr(-1)}, "completion must be between"},
		{"clear pattern", &taskv1.UpdateTaskRequest{Id: id, RecurrencePattern: strPtr("")}, ""},
		{"get without id", &taskv1.GetTaskRequest{}, "task ID is required"},
		{"carry over without date", &taskv1.CarryOverTaskRequest{Id: id}, "new_date is required"},
		{"extend zero", &taskv1.ExtendSeriesRequest{Id: id}, "occurrences must be between 1 and 366"},
		{"reparent to root", &taskv1.ReparentTaskRequest{Id: id}, ""},
		{"list by series", &taskv1.ListTasksRequest{SeriesId: "nope"}, "invalid series ID format"},
		{"empty plan", &taskv1.ImportPlanRequest{Date: "2024-01-01"}, "plan has no tasks"},
		{"plan subtask without title", &taskv1.ImportPlanRequest{Items: []*taskv1.PlanItem{{Title: "a", Subtasks: []*taskv1.PlanItem{{}}}}}, "items[0].subtasks[0]: title is required"},
		{"unknown request type", "anything", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Unary()(context.Background(), tt.req, &grpc.UnaryServerInfo{FullMethod: "/task.v1.TaskService/Test"}, okHandler)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuthInterceptor(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	interceptor := NewAuthInterceptor(tm).Unary()
	token, _, err := tm.Generate("user-7", "Grace")
	require.NoError(t, err)

	info := &grpc.UnaryServerInfo{FullMethod: taskv1.TaskService_ListTasks_FullMethodName}

	t.Run("valid token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
		resp, err := interceptor(ctx, nil, info, okHandler)
		require.NoError(t, err)

		userID, ok := GetUserIDFromContext(resp.(context.Context))
		assert.True(t, ok)
		assert.Equal(t, "user-7", userID)
		assert.Equal(t, "Grace", GetClientInfoFromContext(resp.(context.Context)).UserName)
	})

	t.Run("missing header", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})
		_, err := interceptor(ctx, nil, info, okHandler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("bad token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer garbage"))
		_, err := interceptor(ctx, nil, info, okHandler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("health is public", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, okHandler)
		assert.NoError(t, err)
	})
}

func TestMetadataExtractor(t *testing.T) {
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.0.0.5"), Port: 4242}})
	ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("user-agent", "dayplan-cli/1.0"))

	resp, err := NewMetadataExtractorInterceptor().Unary()(ctx, nil, &grpc.UnaryServerInfo{}, okHandler)
	require.NoError(t, err)

	info := GetClientInfoFromContext(resp.(context.Context))
	assert.Equal(t, "10.0.0.5", info.IPAddress)
	assert.Equal(t, "dayplan-cli/1.0", info.UserAgent)
	assert.Empty(t, info.UserID)
}
