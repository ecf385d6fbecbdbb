package release

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "reanimator.release.v1.ReleaseService"
	// GetLatestReleaseMethod is the full method path of GetLatestRelease.
	GetLatestReleaseMethod = "/" + ServiceName + "/GetLatestRelease"
)

// ReleaseServiceServer is the server API of ReleaseService.
type ReleaseServiceServer interface {
	GetLatestRelease(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// ServiceDesc describes ReleaseService for grpc.Server registration.
//
//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReleaseServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetLatestRelease",
			Handler:    getLatestReleaseHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "reanimator/release/v1/release.proto",
}

// RegisterReleaseServiceServer registers srv on s.
func RegisterReleaseServiceServer(s grpc.ServiceRegistrar, srv ReleaseServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func getLatestReleaseHandler(
	srv any,
	ctx context.Context, //nolint:revive // Signature is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ReleaseServiceServer).GetLatestRelease(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetLatestReleaseMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReleaseServiceServer).GetLatestRelease(ctx, req.(*wrapperspb.StringValue))
	}

	return interceptor(ctx, in, info, handler)
}

// ReleaseServiceClient is the client API of ReleaseService.
type ReleaseServiceClient interface {
	GetLatestRelease(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type releaseServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewReleaseServiceClient creates a client bound to cc.
func NewReleaseServiceClient(cc grpc.ClientConnInterface) ReleaseServiceClient {
	return &releaseServiceClient{cc: cc}
}

// GetLatestRelease invokes the unary method.
func (c *releaseServiceClient) GetLatestRelease(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetLatestReleaseMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
