package grpcregistry

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/proxyreg/ledger"
	"xdao.co/proxyreg/registry"
)

func codeForKind(k registry.Kind) codes.Code {
	switch k {
	case registry.KindNotOwner, registry.KindNotApproved:
		return codes.PermissionDenied
	case registry.KindNullAddress, registry.KindBadPayload:
		return codes.InvalidArgument
	case registry.KindIdInUse, registry.KindCollision:
		return codes.AlreadyExists
	case registry.KindUnknownId:
		return codes.NotFound
	default:
		return codes.Internal
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var e *registry.Error
	if errors.As(err, &e) {
		// Error() is "Kind: message"; mapRPC relies on the prefix to
		// reconstruct the Kind on the client side.
		return status.Error(codeForKind(e.Kind), e.Error())
	}
	switch {
	case errors.Is(err, ledger.ErrNoAccount):
		return status.Error(codes.NotFound, err.Error())
	case ledger.IsCollision(err):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var wireKinds = []registry.Kind{
	registry.KindNotOwner,
	registry.KindNotApproved,
	registry.KindNullAddress,
	registry.KindIdInUse,
	registry.KindUnknownId,
	registry.KindCollision,
	registry.KindBadPayload,
}

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	msg := st.Message()
	for _, k := range wireKinds {
		prefix := string(k) + ": "
		if strings.HasPrefix(msg, prefix) {
			return &registry.Error{Kind: k, Message: strings.TrimPrefix(msg, prefix)}
		}
	}
	return err
}
