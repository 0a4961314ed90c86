package grpcregistry

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/registry"
	"xdao.co/proxyreg/wire"
)

// Client is a typed client for the Registry gRPC service.
//
// Privileged methods require a Signer; read-only queries work without one.
type Client struct {
	cc     *grpc.ClientConn
	client RegistryClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration

	// Signer authenticates privileged requests.
	Signer Signer
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int

	// Signer authenticates privileged requests; may be nil for read-only use.
	Signer Signer
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewRegistryClient(cc), Signer: opts.Signer}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) signed(method string, payload []byte) (*wrapperspb.BytesValue, error) {
	if c.Signer == nil {
		return nil, errors.New("grpcregistry: no signer configured")
	}
	env, err := c.Signer.Sign(method, payload)
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bytes(env.Encode()), nil
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

// SetOwner reassigns the manager's owner.
func (c *Client) SetOwner(next addr.Address) error {
	in, err := c.signed(registry.MethodSetOwner, wire.EncodeAddress(next))
	if err != nil {
		return err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	_, err = c.client.SetOwner(ctx, in)
	return mapRPC(err)
}

// ApproveDeployer adds deployer to the approved set.
func (c *Client) ApproveDeployer(deployer addr.Address) error {
	in, err := c.signed(registry.MethodApproveDeployer, wire.EncodeAddress(deployer))
	if err != nil {
		return err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	_, err = c.client.ApproveDeployer(ctx, in)
	return mapRPC(err)
}

// DisapproveDeployer removes deployer from the approved set.
func (c *Client) DisapproveDeployer(deployer addr.Address) error {
	in, err := c.signed(registry.MethodDisapproveDeployer, wire.EncodeAddress(deployer))
	if err != nil {
		return err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	_, err = c.client.DisapproveDeployer(ctx, in)
	return mapRPC(err)
}

// CreateSharedRelationship binds id to a fresh holder seeded with impl and
// returns the holder's address.
func (c *Client) CreateSharedRelationship(id addr.Salt, impl addr.Address) (addr.Address, error) {
	payload := wire.NewWriter().Salt(id).Address(impl).Bytes()
	in, err := c.signed(registry.MethodCreateSharedRelationship, payload)
	if err != nil {
		return addr.Zero, err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.CreateSharedRelationship(ctx, in)
	if err != nil {
		return addr.Zero, mapRPC(err)
	}
	return addr.ParseAddress(reply.GetValue())
}

// UpdateSharedImplementation points id's holder at impl.
func (c *Client) UpdateSharedImplementation(id addr.Salt, impl addr.Address) error {
	payload := wire.NewWriter().Salt(id).Address(impl).Bytes()
	in, err := c.signed(registry.MethodUpdateSharedImplementation, payload)
	if err != nil {
		return err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	_, err = c.client.UpdateSharedImplementation(ctx, in)
	return mapRPC(err)
}

// UpdateDirectImplementation retargets the direct proxy at proxyAddr.
func (c *Client) UpdateDirectImplementation(proxyAddr, impl addr.Address) error {
	payload := wire.NewWriter().Address(proxyAddr).Address(impl).Bytes()
	in, err := c.signed(registry.MethodUpdateDirectImplementation, payload)
	if err != nil {
		return err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	_, err = c.client.UpdateDirectImplementation(ctx, in)
	return mapRPC(err)
}

// DeployDirectProxy deploys a direct proxy under salt pointing at impl.
func (c *Client) DeployDirectProxy(salt addr.Salt, impl addr.Address) (addr.Address, error) {
	payload := wire.NewWriter().Salt(salt).Address(impl).Bytes()
	in, err := c.signed(registry.MethodDeployDirectProxy, payload)
	if err != nil {
		return addr.Zero, err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.DeployDirectProxy(ctx, in)
	if err != nil {
		return addr.Zero, mapRPC(err)
	}
	return addr.ParseAddress(reply.GetValue())
}

// DeploySharedProxy deploys a shared proxy under salt bound to id's holder.
func (c *Client) DeploySharedProxy(id, salt addr.Salt) (addr.Address, error) {
	payload := wire.NewWriter().Salt(id).Salt(salt).Bytes()
	in, err := c.signed(registry.MethodDeploySharedProxy, payload)
	if err != nil {
		return addr.Zero, err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.DeploySharedProxy(ctx, in)
	if err != nil {
		return addr.Zero, mapRPC(err)
	}
	return addr.ParseAddress(reply.GetValue())
}

// Owner returns the manager's current owner.
func (c *Client) Owner() (addr.Address, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.Owner(ctx, &emptypb.Empty{})
	if err != nil {
		return addr.Zero, mapRPC(err)
	}
	return addr.ParseAddress(reply.GetValue())
}

// IsApprovedDeployer reports approved-set membership.
func (c *Client) IsApprovedDeployer(deployer addr.Address) (bool, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.IsApprovedDeployer(ctx, wrapperspb.String(deployer.String()))
	if err != nil {
		return false, mapRPC(err)
	}
	return reply.GetValue(), nil
}

// HolderFor returns the holder bound to id; ok reports whether the binding
// exists.
func (c *Client) HolderFor(id addr.Salt) (holder addr.Address, ok bool, err error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.HolderFor(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return addr.Zero, false, mapRPC(err)
	}
	a, err := addr.ParseAddress(reply.GetValue())
	if err != nil {
		return addr.Zero, false, err
	}
	return a, !a.IsZero(), nil
}

// PredictDirectProxy returns the address a direct-proxy deployment under
// salt would occupy.
func (c *Client) PredictDirectProxy(salt addr.Salt) (addr.Address, error) {
	return c.predict(salt, true)
}

// PredictSharedProxy returns the address a shared-proxy deployment under
// salt would occupy.
func (c *Client) PredictSharedProxy(salt addr.Salt) (addr.Address, error) {
	return c.predict(salt, false)
}

func (c *Client) predict(salt addr.Salt, direct bool) (addr.Address, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	var (
		reply *wrapperspb.StringValue
		err   error
	)
	if direct {
		reply, err = c.client.PredictDirectProxy(ctx, wrapperspb.String(salt.String()))
	} else {
		reply, err = c.client.PredictSharedProxy(ctx, wrapperspb.String(salt.String()))
	}
	if err != nil {
		return addr.Zero, mapRPC(err)
	}
	return addr.ParseAddress(reply.GetValue())
}

// StagedImplementation returns the manager's transient staged
// implementation slot.
func (c *Client) StagedImplementation() (addr.Address, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.StagedImplementation(ctx, &emptypb.Empty{})
	if err != nil {
		return addr.Zero, mapRPC(err)
	}
	return addr.ParseAddress(reply.GetValue())
}

// StagedHolder returns the manager's transient staged holder slot.
func (c *Client) StagedHolder() (addr.Address, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.StagedHolder(ctx, &emptypb.Empty{})
	if err != nil {
		return addr.Zero, mapRPC(err)
	}
	return addr.ParseAddress(reply.GetValue())
}
