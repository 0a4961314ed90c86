// Package grpcregistry exposes a deployed proxy manager over gRPC.
//
// Privileged requests carry a signed envelope; the server verifies the
// signature, derives the sender's ledger address from the public key and
// issues the manager call under that identity. Read-only queries are
// unauthenticated.
package grpcregistry

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/proxy"
	"xdao.co/proxyreg/registry"
	"xdao.co/proxyreg/wire"
)

// Server exposes a registry.Handle over the Registry gRPC service.
type Server struct {
	UnimplementedRegistryServer
	Handle *registry.Handle
}

// invoke verifies the envelope for method and issues the manager call with
// the derived sender identity. The RPC payload is the ledger method payload
// verbatim, so one canonical encoding covers both boundaries.
func (s *Server) invoke(method string, in *wrapperspb.BytesValue) ([]byte, error) {
	if s == nil || s.Handle == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	env, err := DecodeEnvelope(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	sender, err := env.Verify(method)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	out, err := s.Handle.Ledger().Call(sender, s.Handle.Address(), method, env.Payload)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// query issues an unauthenticated read against the manager.
func (s *Server) query(method string, payload []byte) ([]byte, error) {
	if s == nil || s.Handle == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	out, err := s.Handle.Ledger().Call(addr.Zero, s.Handle.Address(), method, payload)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func addressReply(out []byte) (*wrapperspb.StringValue, error) {
	a, err := wire.DecodeAddress(out)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.String(a.String()), nil
}

func (s *Server) SetOwner(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	_ = ctx
	if _, err := s.invoke(registry.MethodSetOwner, in); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) ApproveDeployer(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	_ = ctx
	if _, err := s.invoke(registry.MethodApproveDeployer, in); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) DisapproveDeployer(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	_ = ctx
	if _, err := s.invoke(registry.MethodDisapproveDeployer, in); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) CreateSharedRelationship(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	out, err := s.invoke(registry.MethodCreateSharedRelationship, in)
	if err != nil {
		return nil, err
	}
	return addressReply(out)
}

func (s *Server) UpdateSharedImplementation(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	_ = ctx
	if _, err := s.invoke(registry.MethodUpdateSharedImplementation, in); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) UpdateDirectImplementation(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	_ = ctx
	if _, err := s.invoke(registry.MethodUpdateDirectImplementation, in); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) DeployDirectProxy(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	out, err := s.invoke(registry.MethodDeployDirectProxy, in)
	if err != nil {
		return nil, err
	}
	return addressReply(out)
}

func (s *Server) DeploySharedProxy(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	out, err := s.invoke(registry.MethodDeploySharedProxy, in)
	if err != nil {
		return nil, err
	}
	return addressReply(out)
}

func (s *Server) Owner(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error) {
	_, _ = ctx, in
	out, err := s.query(registry.MethodOwner, nil)
	if err != nil {
		return nil, err
	}
	return addressReply(out)
}

func (s *Server) IsApprovedDeployer(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	_ = ctx
	a, err := addr.ParseAddress(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	out, err := s.query(registry.MethodIsApprovedDeployer, wire.EncodeAddress(a))
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bool(len(out) == 1 && out[0] == 1), nil
}

func (s *Server) HolderFor(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	id, err := addr.ParseSalt(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	out, err := s.query(registry.MethodHolderFor, wire.EncodeSalt(id))
	if err != nil {
		return nil, err
	}
	return addressReply(out)
}

func (s *Server) PredictDirectProxy(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	return s.predict(registry.MethodPredictDirectProxy, in)
}

func (s *Server) PredictSharedProxy(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	return s.predict(registry.MethodPredictSharedProxy, in)
}

func (s *Server) predict(method string, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	salt, err := addr.ParseSalt(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	out, err := s.query(method, wire.EncodeSalt(salt))
	if err != nil {
		return nil, err
	}
	return addressReply(out)
}

func (s *Server) StagedImplementation(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error) {
	_, _ = ctx, in
	out, err := s.query(proxy.MethodStagedImplementation, nil)
	if err != nil {
		return nil, err
	}
	return addressReply(out)
}

func (s *Server) StagedHolder(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error) {
	_, _ = ctx, in
	out, err := s.query(proxy.MethodStagedHolder, nil)
	if err != nil {
		return nil, err
	}
	return addressReply(out)
}
