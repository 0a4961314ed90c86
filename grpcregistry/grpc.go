package grpcregistry

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// RegistryServer is the server API for the Registry gRPC service.
//
// We intentionally use protobuf well-known wrapper types so this package
// does not require a protoc/codegen toolchain. Privileged requests are
// BytesValue-wrapped signed envelopes (see Envelope); read-only queries
// take bare hex strings.
//
// Proto definition: registry.proto.
type RegistryServer interface {
	SetOwner(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	ApproveDeployer(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	DisapproveDeployer(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	CreateSharedRelationship(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	UpdateSharedImplementation(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	UpdateDirectImplementation(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	DeployDirectProxy(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	DeploySharedProxy(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	Owner(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	IsApprovedDeployer(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	HolderFor(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	PredictDirectProxy(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	PredictSharedProxy(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	StagedImplementation(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	StagedHolder(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
}

// UnimplementedRegistryServer can be embedded to have forward compatible
// implementations.
type UnimplementedRegistryServer struct{}

func (UnimplementedRegistryServer) SetOwner(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetOwner not implemented")
}
func (UnimplementedRegistryServer) ApproveDeployer(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveDeployer not implemented")
}
func (UnimplementedRegistryServer) DisapproveDeployer(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DisapproveDeployer not implemented")
}
func (UnimplementedRegistryServer) CreateSharedRelationship(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSharedRelationship not implemented")
}
func (UnimplementedRegistryServer) UpdateSharedImplementation(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateSharedImplementation not implemented")
}
func (UnimplementedRegistryServer) UpdateDirectImplementation(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateDirectImplementation not implemented")
}
func (UnimplementedRegistryServer) DeployDirectProxy(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method DeployDirectProxy not implemented")
}
func (UnimplementedRegistryServer) DeploySharedProxy(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method DeploySharedProxy not implemented")
}
func (UnimplementedRegistryServer) Owner(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Owner not implemented")
}
func (UnimplementedRegistryServer) IsApprovedDeployer(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method IsApprovedDeployer not implemented")
}
func (UnimplementedRegistryServer) HolderFor(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method HolderFor not implemented")
}
func (UnimplementedRegistryServer) PredictDirectProxy(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method PredictDirectProxy not implemented")
}
func (UnimplementedRegistryServer) PredictSharedProxy(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method PredictSharedProxy not implemented")
}
func (UnimplementedRegistryServer) StagedImplementation(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method StagedImplementation not implemented")
}
func (UnimplementedRegistryServer) StagedHolder(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method StagedHolder not implemented")
}

// RegisterRegistryServer registers the Registry service on a gRPC server.
func RegisterRegistryServer(s grpc.ServiceRegistrar, srv RegistryServer) {
	s.RegisterService(&Registry_ServiceDesc, srv)
}

const serviceName = "xdao.proxyreg.v1.Registry"

// RegistryClient is the client API for the Registry gRPC service.
type RegistryClient interface {
	SetOwner(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ApproveDeployer(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DisapproveDeployer(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	CreateSharedRelationship(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	UpdateSharedImplementation(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	UpdateDirectImplementation(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DeployDirectProxy(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	DeploySharedProxy(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Owner(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	IsApprovedDeployer(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	HolderFor(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	PredictDirectProxy(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	PredictSharedProxy(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	StagedImplementation(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	StagedHolder(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type registryClient struct{ cc grpc.ClientConnInterface }

func NewRegistryClient(cc grpc.ClientConnInterface) RegistryClient { return &registryClient{cc: cc} }

func (c *registryClient) SetOwner(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/SetOwner", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) ApproveDeployer(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ApproveDeployer", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) DisapproveDeployer(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/DisapproveDeployer", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) CreateSharedRelationship(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/CreateSharedRelationship", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) UpdateSharedImplementation(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/UpdateSharedImplementation", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) UpdateDirectImplementation(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/UpdateDirectImplementation", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) DeployDirectProxy(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/DeployDirectProxy", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) DeploySharedProxy(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/DeploySharedProxy", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) Owner(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Owner", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) IsApprovedDeployer(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/IsApprovedDeployer", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) HolderFor(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/HolderFor", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) PredictDirectProxy(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/PredictDirectProxy", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) PredictSharedProxy(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/PredictSharedProxy", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) StagedImplementation(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/StagedImplementation", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) StagedHolder(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/StagedHolder", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func signedHandler(
	name string,
	call func(RegistryServer, context.Context, *wrapperspb.BytesValue) (interface{}, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.BytesValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RegistryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + name}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RegistryServer), ctx, req.(*wrapperspb.BytesValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func stringHandler(
	name string,
	call func(RegistryServer, context.Context, *wrapperspb.StringValue) (interface{}, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RegistryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + name}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RegistryServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func emptyHandler(
	name string,
	call func(RegistryServer, context.Context, *emptypb.Empty) (interface{}, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RegistryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + name}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RegistryServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Registry_ServiceDesc is the grpc.ServiceDesc for the Registry service.
var Registry_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RegistryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SetOwner", Handler: signedHandler("SetOwner", func(s RegistryServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
			return s.SetOwner(ctx, in)
		})},
		{MethodName: "ApproveDeployer", Handler: signedHandler("ApproveDeployer", func(s RegistryServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
			return s.ApproveDeployer(ctx, in)
		})},
		{MethodName: "DisapproveDeployer", Handler: signedHandler("DisapproveDeployer", func(s RegistryServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
			return s.DisapproveDeployer(ctx, in)
		})},
		{MethodName: "CreateSharedRelationship", Handler: signedHandler("CreateSharedRelationship", func(s RegistryServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
			return s.CreateSharedRelationship(ctx, in)
		})},
		{MethodName: "UpdateSharedImplementation", Handler: signedHandler("UpdateSharedImplementation", func(s RegistryServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
			return s.UpdateSharedImplementation(ctx, in)
		})},
		{MethodName: "UpdateDirectImplementation", Handler: signedHandler("UpdateDirectImplementation", func(s RegistryServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
			return s.UpdateDirectImplementation(ctx, in)
		})},
		{MethodName: "DeployDirectProxy", Handler: signedHandler("DeployDirectProxy", func(s RegistryServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
			return s.DeployDirectProxy(ctx, in)
		})},
		{MethodName: "DeploySharedProxy", Handler: signedHandler("DeploySharedProxy", func(s RegistryServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
			return s.DeploySharedProxy(ctx, in)
		})},
		{MethodName: "Owner", Handler: emptyHandler("Owner", func(s RegistryServer, ctx context.Context, in *emptypb.Empty) (interface{}, error) {
			return s.Owner(ctx, in)
		})},
		{MethodName: "IsApprovedDeployer", Handler: stringHandler("IsApprovedDeployer", func(s RegistryServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.IsApprovedDeployer(ctx, in)
		})},
		{MethodName: "HolderFor", Handler: stringHandler("HolderFor", func(s RegistryServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.HolderFor(ctx, in)
		})},
		{MethodName: "PredictDirectProxy", Handler: stringHandler("PredictDirectProxy", func(s RegistryServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.PredictDirectProxy(ctx, in)
		})},
		{MethodName: "PredictSharedProxy", Handler: stringHandler("PredictSharedProxy", func(s RegistryServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.PredictSharedProxy(ctx, in)
		})},
		{MethodName: "StagedImplementation", Handler: emptyHandler("StagedImplementation", func(s RegistryServer, ctx context.Context, in *emptypb.Empty) (interface{}, error) {
			return s.StagedImplementation(ctx, in)
		})},
		{MethodName: "StagedHolder", Handler: emptyHandler("StagedHolder", func(s RegistryServer, ctx context.Context, in *emptypb.Empty) (interface{}, error) {
			return s.StagedHolder(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "registry.proto",
}
