package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// engineServer is the method set serviceDesc dispatches to.
type engineServer interface {
	Rate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Cost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Path(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Recommend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Practical(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Compare(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Tables(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ engineServer = (*Server)(nil)

// unary builds a method handler for one engineServer method.
func unary(name string, fn func(engineServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(engineServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(engineServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*engineServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Rate", engineServer.Rate),
		unary("Cost", engineServer.Cost),
		unary("Path", engineServer.Path),
		unary("Recommend", engineServer.Recommend),
		unary("Practical", engineServer.Practical),
		unary("Simulate", engineServer.Simulate),
		unary("Compare", engineServer.Compare),
		unary("Tables", engineServer.Tables),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "enchant/v1/engine.proto",
}
