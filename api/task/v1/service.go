package taskv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	TaskService_CreateTask_FullMethodName    = "/task.v1.TaskService/CreateTask"
	TaskService_GetTask_FullMethodName       = "/task.v1.TaskService/GetTask"
	TaskService_ListTasks_FullMethodName     = "/task.v1.TaskService/ListTasks"
	TaskService_UpdateTask_FullMethodName    = "/task.v1.TaskService/UpdateTask"
	TaskService_DeleteTask_FullMethodName    = "/task.v1.TaskService/DeleteTask"
	TaskService_CarryOverTask_FullMethodName = "/task.v1.TaskService/CarryOverTask"
	TaskService_ExtendSeries_FullMethodName  = "/task.v1.TaskService/ExtendSeries"
	TaskService_EndSeries_FullMethodName     = "/task.v1.TaskService/EndSeries"
	TaskService_ReparentTask_FullMethodName  = "/task.v1.TaskService/ReparentTask"
	TaskService_ImportPlan_FullMethodName    = "/task.v1.TaskService/ImportPlan"
	TaskService_WatchTasks_FullMethodName    = "/task.v1.TaskService/WatchTasks"
)

// TaskServiceServer is the server API for TaskService
type TaskServiceServer interface {
	CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error)
	GetTask(context.Context, *GetTaskRequest) (*GetTaskResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error)
	CarryOverTask(context.Context, *CarryOverTaskRequest) (*CarryOverTaskResponse, error)
	ExtendSeries(context.Context, *ExtendSeriesRequest) (*ExtendSeriesResponse, error)
	EndSeries(context.Context, *EndSeriesRequest) (*emptypb.Empty, error)
	ReparentTask(context.Context, *ReparentTaskRequest) (*ReparentTaskResponse, error)
	ImportPlan(context.Context, *ImportPlanRequest) (*ImportPlanResponse, error)
	WatchTasks(*WatchTasksRequest, TaskService_WatchTasksServer) error
	mustEmbedUnimplementedTaskServiceServer()
}

type TaskService_WatchTasksServer = grpc.ServerStreamingServer[TaskEvent]

// UnimplementedTaskServiceServer must be embedded by implementations
type UnimplementedTaskServiceServer struct{}

func (UnimplementedTaskServiceServer) CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateTask not implemented")
}
func (UnimplementedTaskServiceServer) GetTask(context.Context, *GetTaskRequest) (*GetTaskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetTask not implemented")
}
func (UnimplementedTaskServiceServer) ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListTasks not implemented")
}
func (UnimplementedTaskServiceServer) UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateTask not implemented")
}
func (UnimplementedTaskServiceServer) DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteTask not implemented")
}
func (UnimplementedTaskServiceServer) CarryOverTask(context.Context, *CarryOverTaskRequest) (*CarryOverTaskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CarryOverTask not implemented")
}
func (UnimplementedTaskServiceServer) ExtendSeries(context.Context, *ExtendSeriesRequest) (*ExtendSeriesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ExtendSeries not implemented")
}
func (UnimplementedTaskServiceServer) EndSeries(context.Context, *EndSeriesRequest) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EndSeries not implemented")
}
func (UnimplementedTaskServiceServer) ReparentTask(context.Context, *ReparentTaskRequest) (*ReparentTaskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReparentTask not implemented")
}
func (UnimplementedTaskServiceServer) ImportPlan(context.Context, *ImportPlanRequest) (*ImportPlanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ImportPlan not implemented")
}
func (UnimplementedTaskServiceServer) WatchTasks(*WatchTasksRequest, TaskService_WatchTasksServer) error {
	return status.Errorf(codes.Unimplemented, "method WatchTasks not implemented")
}
func (UnimplementedTaskServiceServer) mustEmbedUnimplementedTaskServiceServer() {}

func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&TaskService_ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodHandler
func unary[Req, Resp any](fullMethod string, call func(TaskServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TaskServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(TaskServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _TaskService_WatchTasks_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(WatchTasksRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(TaskServiceServer).WatchTasks(m, &grpc.GenericServerStream[WatchTasksRequest, TaskEvent]{ServerStream: stream})
}

// TaskService_ServiceDesc is the grpc.ServiceDesc for TaskService
var TaskService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "task.v1.TaskService",
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateTask", Handler: unary(TaskService_CreateTask_FullMethodName, TaskServiceServer.CreateTask)},
		{MethodName: "GetTask", Handler: unary(TaskService_GetTask_FullMethodName, TaskServiceServer.GetTask)},
		{MethodName: "ListTasks", Handler: unary(TaskService_ListTasks_FullMethodName, TaskServiceServer.ListTasks)},
		{MethodName: "UpdateTask", Handler: unary(TaskService_UpdateTask_FullMethodName, TaskServiceServer.UpdateTask)},
		{MethodName: "DeleteTask", Handler: unary(TaskService_DeleteTask_FullMethodName, TaskServiceServer.DeleteTask)},
		{MethodName: "CarryOverTask", Handler: unary(TaskService_CarryOverTask_FullMethodName, TaskServiceServer.CarryOverTask)},
		{MethodName: "ExtendSeries", Handler: unary(TaskService_ExtendSeries_FullMethodName, TaskServiceServer.ExtendSeries)},
		{MethodName: "EndSeries", Handler: unary(TaskService_EndSeries_FullMethodName, TaskServiceServer.EndSeries)},
		{MethodName: "ReparentTask", Handler: unary(TaskService_ReparentTask_FullMethodName, TaskServiceServer.ReparentTask)},
		{MethodName: "ImportPlan", Handler: unary(TaskService_ImportPlan_FullMethodName, TaskServiceServer.ImportPlan)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchTasks",
			Handler:       _TaskService_WatchTasks_Handler,
			ServerStreams: true,
		},
	},
}

// TaskServiceClient is the client API for TaskService
type TaskServiceClient interface {
	CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*CreateTaskResponse, error)
	GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*GetTaskResponse, error)
	ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*UpdateTaskResponse, error)
	DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*DeleteTaskResponse, error)
	CarryOverTask(ctx context.Context, in *CarryOverTaskRequest, opts ...grpc.CallOption) (*CarryOverTaskResponse, error)
	ExtendSeries(ctx context.Context, in *ExtendSeriesRequest, opts ...grpc.CallOption) (*ExtendSeriesResponse, error)
	EndSeries(ctx context.Context, in *EndSeriesRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ReparentTask(ctx context.Context, in *ReparentTaskRequest, opts ...grpc.CallOption) (*ReparentTaskResponse, error)
	ImportPlan(ctx context.Context, in *ImportPlanRequest, opts ...grpc.CallOption) (*ImportPlanResponse, error)
	WatchTasks(ctx context.Context, in *WatchTasksRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[TaskEvent], error)
}

type taskServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTaskServiceClient returns a client that always speaks the JSON codec
func NewTaskServiceClient(cc grpc.ClientConnInterface) TaskServiceClient {
	return &taskServiceClient{cc}
}

func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskServiceClient) CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*CreateTaskResponse, error) {
	return invoke[CreateTaskResponse](ctx, c.cc, TaskService_CreateTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*GetTaskResponse, error) {
	return invoke[GetTaskResponse](ctx, c.cc, TaskService_GetTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	return invoke[ListTasksResponse](ctx, c.cc, TaskService_ListTasks_FullMethodName, in, opts)
}

func (c *taskServiceClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*UpdateTaskResponse, error) {
	return invoke[UpdateTaskResponse](ctx, c.cc, TaskService_UpdateTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*DeleteTaskResponse, error) {
	return invoke[DeleteTaskResponse](ctx, c.cc, TaskService_DeleteTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) CarryOverTask(ctx context.Context, in *CarryOverTaskRequest, opts ...grpc.CallOption) (*CarryOverTaskResponse, error) {
	return invoke[CarryOverTaskResponse](ctx, c.cc, TaskService_CarryOverTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) ExtendSeries(ctx context.Context, in *ExtendSeriesRequest, opts ...grpc.CallOption) (*ExtendSeriesResponse, error) {
	return invoke[ExtendSeriesResponse](ctx, c.cc, TaskService_ExtendSeries_FullMethodName, in, opts)
}

func (c *taskServiceClient) EndSeries(ctx context.Context, in *EndSeriesRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, TaskService_EndSeries_FullMethodName, in, opts)
}

func (c *taskServiceClient) ReparentTask(ctx context.Context, in *ReparentTaskRequest, opts ...grpc.CallOption) (*ReparentTaskResponse, error) {
	return invoke[ReparentTaskResponse](ctx, c.cc, TaskService_ReparentTask_FullMethodName, in, opts)
}

func (c *taskServiceClient) ImportPlan(ctx context.Context, in *ImportPlanRequest, opts ...grpc.CallOption) (*ImportPlanResponse, error) {
	return invoke[ImportPlanResponse](ctx, c.cc, TaskService_ImportPlan_FullMethodName, in, opts)
}

func (c *taskServiceClient) WatchTasks(ctx context.Context, in *WatchTasksRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[TaskEvent], error) {
	stream, err := c.cc.NewStream(ctx, &TaskService_ServiceDesc.Streams[0], TaskService_WatchTasks_FullMethodName, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchTasksRequest, TaskEvent]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
