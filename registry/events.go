package registry

import "xdao.co/proxyreg/addr"

// EventType names an append-only event emitted by the manager.
type EventType string

const (
	EventRelationshipCreated         EventType = "RelationshipCreated"
	EventSharedImplementationUpdated EventType = "SharedImplementationUpdated"
	EventDirectImplementationUpdated EventType = "DirectImplementationUpdated"
	EventSharedProxyDeployed         EventType = "SharedProxyDeployed"
	EventDirectProxyDeployed         EventType = "DirectProxyDeployed"
)

// Event records one successful privileged operation for off-ledger
// observers. Fields not meaningful for a given type are zero.
//
// Events are appended at each operation's success point, after every
// fallible step; failed operations emit nothing.
type Event struct {
	Type           EventType
	ID             addr.Salt
	Holder         addr.Address
	Proxy          addr.Address
	Implementation addr.Address
}
