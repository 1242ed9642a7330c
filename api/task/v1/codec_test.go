package taskv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodec_PlainMessages(t *testing.T) {
	var c Codec
	completion := int32(40)
	in := &UpdateTaskRequest{Id: "t1", Completion: &completion, MoveSubtasks: true}

	data, err := c.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"t1","completion":40,"moveSubtasks":true}`, string(data))

	var out UpdateTaskRequest
	require.NoError(t, c.Unmarshal(data, &out))
	require.NotNil(t, out.Completion)
	assert.Equal(t, int32(40), *out.Completion)
	assert.Nil(t, out.Title)
}

func TestCodec_ProtoMessages(t *testing.T) {
	var c Codec

	data, err := c.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	ts := timestamppb.New(timestamppb.Now().AsTime().Truncate(1e9))
	data, err = c.Marshal(ts)
	require.NoError(t, err)

	var back timestamppb.Timestamp
	require.NoError(t, c.Unmarshal(data, &back))
	assert.True(t, ts.AsTime().Equal(back.AsTime()))
}

// no proto descriptor is registered for TaskService, so reflection must not
// be pointed at one
func TestServiceDesc(t *testing.T) {
	assert.Nil(t, TaskService_ServiceDesc.Metadata)

	for _, m := range TaskService_ServiceDesc.Methods {
		assert.NotNil(t, m.Handler, m.MethodName)
	}
	assert.Equal(t, "task.v1.TaskService", TaskService_ServiceDesc.ServiceName)
}
