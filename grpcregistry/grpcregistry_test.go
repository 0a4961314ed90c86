package grpcregistry

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/ledger"
	"xdao.co/proxyreg/registry"
)

// verImpl is a toy upgrade target used as proxy implementation code.
type verImpl struct {
	tag string
}

func (verImpl) Kind() string                    { return "test-impl/v1" }
func (verImpl) Construct(env *ledger.Env) error { return nil }

func (v verImpl) Invoke(env *ledger.Env, method string, input []byte) ([]byte, error) {
	if method == "version" {
		return []byte(v.tag), nil
	}
	return nil, ledger.ErrNoMethod
}

func saltN(b byte) addr.Salt {
	var s addr.Salt
	s[addr.SaltSize-1] = b
	return s
}

type testRig struct {
	l      *ledger.Ledger
	handle *registry.Handle
	owner  *Ed25519Signer
	dial   func(t *testing.T, signer Signer) *Client
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()

	owner := testSigner(t, 0x01)
	l := ledger.New()
	handle, err := registry.Deploy(l, owner.Address(), saltN(0x01))
	if err != nil {
		t.Fatalf("deploy manager: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterRegistryServer(srv, &Server{Handle: handle})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dial := func(t *testing.T, signer Signer) *Client {
		t.Helper()
		dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
		cc, err := grpc.DialContext(
			context.Background(),
			"bufnet",
			grpc.WithContextDialer(dialer),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			t.Fatalf("DialContext: %v", err)
		}
		t.Cleanup(func() { _ = cc.Close() })
		return &Client{cc: cc, client: NewRegistryClient(cc), Timeout: 2 * time.Second, Signer: signer}
	}

	return &testRig{l: l, handle: handle, owner: owner, dial: dial}
}

func (r *testRig) deployImpl(t *testing.T, saltByte byte, tag string) addr.Address {
	t.Helper()
	a, err := r.l.Deploy(r.owner.Address(), saltN(saltByte), verImpl{tag: tag})
	if err != nil {
		t.Fatalf("deploy implementation: %v", err)
	}
	return a
}

func TestRegistryRoundTrip(t *testing.T) {
	rig := newTestRig(t)
	ownerClient := rig.dial(t, rig.owner)

	v1 := rig.deployImpl(t, 0x10, "v1")
	v2 := rig.deployImpl(t, 0x11, "v2")
	id := saltN(0x20)

	gotOwner, err := ownerClient.Owner()
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if gotOwner != rig.owner.Address() {
		t.Fatalf("owner = %s, want %s", gotOwner, rig.owner.Address())
	}

	holder, err := ownerClient.CreateSharedRelationship(id, v1)
	if err != nil {
		t.Fatalf("CreateSharedRelationship: %v", err)
	}
	if holder != rig.handle.PredictHolder(id) {
		t.Fatalf("holder %s, predicted %s", holder, rig.handle.PredictHolder(id))
	}

	got, ok, err := ownerClient.HolderFor(id)
	if err != nil || !ok || got != holder {
		t.Fatalf("HolderFor = %s, %v, %v", got, ok, err)
	}

	salt := saltN(0x30)
	predicted, err := ownerClient.PredictSharedProxy(salt)
	if err != nil {
		t.Fatalf("PredictSharedProxy: %v", err)
	}
	p, err := ownerClient.DeploySharedProxy(id, salt)
	if err != nil {
		t.Fatalf("DeploySharedProxy: %v", err)
	}
	if p != predicted {
		t.Fatalf("deployed %s, predicted %s", p, predicted)
	}

	if err := ownerClient.UpdateSharedImplementation(id, v2); err != nil {
		t.Fatalf("UpdateSharedImplementation: %v", err)
	}
	out, err := rig.l.Call(rig.owner.Address(), p, "version", nil)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if string(out) != "v2" {
		t.Fatalf("version = %q, want v2", out)
	}
}

func TestApprovedDeployerOverRPC(t *testing.T) {
	rig := newTestRig(t)
	ownerClient := rig.dial(t, rig.owner)
	deployer := testSigner(t, 0x02)
	deployerClient := rig.dial(t, deployer)

	v1 := rig.deployImpl(t, 0x10, "v1")
	id := saltN(0x20)
	if _, err := ownerClient.CreateSharedRelationship(id, v1); err != nil {
		t.Fatalf("CreateSharedRelationship: %v", err)
	}

	if _, err := deployerClient.DeploySharedProxy(id, saltN(0x30)); !registry.IsKind(err, registry.KindNotApproved) {
		t.Fatalf("expected NotApproved, got %v", err)
	}

	if err := ownerClient.ApproveDeployer(deployer.Address()); err != nil {
		t.Fatalf("ApproveDeployer: %v", err)
	}
	ok, err := ownerClient.IsApprovedDeployer(deployer.Address())
	if err != nil || !ok {
		t.Fatalf("IsApprovedDeployer = %v, %v", ok, err)
	}

	if _, err := deployerClient.DeploySharedProxy(id, saltN(0x30)); err != nil {
		t.Fatalf("approved deploy: %v", err)
	}

	// Approval does not extend to owner-only operations.
	if _, err := deployerClient.CreateSharedRelationship(saltN(0x21), v1); !registry.IsKind(err, registry.KindNotOwner) {
		t.Fatalf("expected NotOwner, got %v", err)
	}
}

func TestErrorKindsCrossTheWire(t *testing.T) {
	rig := newTestRig(t)
	ownerClient := rig.dial(t, rig.owner)

	v1 := rig.deployImpl(t, 0x10, "v1")
	id := saltN(0x20)

	// UnknownId before the relationship exists.
	if _, err := ownerClient.DeploySharedProxy(id, saltN(0x30)); !registry.IsKind(err, registry.KindUnknownId) {
		t.Fatalf("expected UnknownId, got %v", err)
	}

	if _, err := ownerClient.CreateSharedRelationship(id, v1); err != nil {
		t.Fatalf("CreateSharedRelationship: %v", err)
	}
	if _, err := ownerClient.CreateSharedRelationship(id, v1); !registry.IsKind(err, registry.KindIdInUse) {
		t.Fatalf("expected IdInUse, got %v", err)
	}

	if _, err := ownerClient.CreateSharedRelationship(saltN(0x21), addr.Zero); !registry.IsKind(err, registry.KindNullAddress) {
		t.Fatalf("expected NullAddress, got %v", err)
	}

	salt := saltN(0x31)
	if _, err := ownerClient.DeployDirectProxy(salt, v1); err != nil {
		t.Fatalf("DeployDirectProxy: %v", err)
	}
	if _, err := ownerClient.DeployDirectProxy(salt, v1); !registry.IsKind(err, registry.KindCollision) {
		t.Fatalf("expected Collision, got %v", err)
	}
}

func TestUnsignedReadsAndSignerRequirement(t *testing.T) {
	rig := newTestRig(t)
	anon := rig.dial(t, nil)

	owner, err := anon.Owner()
	if err != nil {
		t.Fatalf("Owner without signer: %v", err)
	}
	if owner != rig.owner.Address() {
		t.Fatalf("owner = %s", owner)
	}

	staged, err := anon.StagedImplementation()
	if err != nil {
		t.Fatalf("StagedImplementation: %v", err)
	}
	if !staged.IsZero() {
		t.Fatalf("staged implementation = %s, want null", staged)
	}
	staged, err = anon.StagedHolder()
	if err != nil {
		t.Fatalf("StagedHolder: %v", err)
	}
	if !staged.IsZero() {
		t.Fatalf("staged holder = %s, want null", staged)
	}

	if _, ok, err := anon.HolderFor(saltN(0x20)); err != nil || ok {
		t.Fatalf("HolderFor unknown id = %v, %v", ok, err)
	}

	// Privileged calls need a signer.
	if err := anon.SetOwner(rig.owner.Address()); err == nil {
		t.Fatalf("expected SetOwner to fail without a signer")
	}
}

func TestForgedEnvelopeRejected(t *testing.T) {
	rig := newTestRig(t)
	stranger := testSigner(t, 0x03)
	strangerClient := rig.dial(t, stranger)

	v1 := rig.deployImpl(t, 0x10, "v1")

	// The signature verifies, but the derived identity is not the owner.
	if _, err := strangerClient.CreateSharedRelationship(saltN(0x20), v1); !registry.IsKind(err, registry.KindNotOwner) {
		t.Fatalf("expected NotOwner, got %v", err)
	}
	if len(rig.handle.Events()) != 0 {
		t.Fatalf("rejected request emitted events")
	}
}
