// Package proto holds the Engine gRPC service. Messages are
// google.protobuf.Struct values:
//
//	DecideMove({snapshot: "<save format>", depth: n}) -> {x1, y1, x2, y2}
package proto

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"migration/internal/engine"
)

const (
	ServiceName          = "migration.Engine"
	DecideMoveFullMethod = "/migration.Engine/DecideMove"
)

type EngineServiceServer interface {
	DecideMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type EngineServiceClient interface {
	DecideMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type engineServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEngineServiceClient(cc grpc.ClientConnInterface) EngineServiceClient {
	return &engineServiceClient{cc}
}

func (c *engineServiceClient) DecideMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DecideMoveFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterEngineServiceServer(s grpc.ServiceRegistrar, srv EngineServiceServer) {
	s.RegisterService(&EngineService_ServiceDesc, srv)
}

func _EngineService_DecideMove_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).DecideMove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DecideMoveFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EngineServiceServer).DecideMove(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var EngineService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "DecideMove",
			Handler:    _EngineService_DecideMove_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "engine.proto",
}

// NewDecideMoveRequest encodes b in the save format. The side to move is
// irrelevant to the bot and always written as player two.
func NewDecideMoveRequest(b *engine.Board, depth int) (*structpb.Struct, error) {
	var sb strings.Builder
	if err := engine.WriteSnapshot(&sb, b, engine.PlayerTwo); err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]interface{}{
		"snapshot": sb.String(),
		"depth":    depth,
	})
}

func ParseDecideMoveRequest(in *structpb.Struct) (*engine.Board, int, error) {
	fields := in.GetFields()
	b, _, err := engine.ReadSnapshot(strings.NewReader(fields["snapshot"].GetStringValue()))
	if err != nil {
		return nil, 0, err
	}
	depth := int(fields["depth"].GetNumberValue())
	if depth < 1 || depth > engine.MaxDepth {
		return nil, 0, fmt.Errorf("depth %d: %w", depth, engine.ErrInvalidDepth)
	}
	return b, depth, nil
}

func NewMoveResponse(m engine.Move) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"x1": m.X1,
		"y1": m.Y1,
		"x2": m.X2,
		"y2": m.Y2,
	})
}

func ParseMoveResponse(out *structpb.Struct) (engine.Move, error) {
	fields := out.GetFields()
	coords := make([]int, 0, 4)
	for _, k := range []string{"x1", "y1", "x2", "y2"} {
		v, ok := fields[k]
		if !ok {
			return engine.NoMove, fmt.Errorf("engine response: missing %s", k)
		}
		coords = append(coords, int(v.GetNumberValue()))
	}
	return engine.Move{X1: coords[0], Y1: coords[1], X2: coords[2], Y2: coords[3]}, nil
}
