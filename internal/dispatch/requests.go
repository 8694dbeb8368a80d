package dispatch

import (
	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

// ObjectAttributes names a key relative to a parent handle, plus the caller
// context a real object-attributes structure carries:
// the process's bitness (for WoW64 view selection) and whether OPEN_LINK
// semantics are wanted.
type ObjectAttributes struct {
	Root          types.KeyID
	Path          string
	CallerIs32Bit bool
	OpenLink      bool
}

type CreateKeyRequest struct {
	Attributes ObjectAttributes
	Options    registry.CreateOptions
	Access     registry.AccessMask
	Class      string
}

type CreateKeyReply struct {
	Handle  types.KeyID
	Created bool
	// Security is the default security descriptor every newly created key
	// inherits; nil when the handle already existed (opened, not created).
	Security *registry.SecurityDescriptor
}

type OpenKeyRequest struct {
	Attributes ObjectAttributes
	Access     registry.AccessMask
}

type OpenKeyReply struct {
	Handle types.KeyID
}

type DeleteKeyRequest struct {
	Handle    types.KeyID
	Recursive bool
}

type DeleteKeyReply struct{}

type FlushKeyRequest struct {
	Handle types.KeyID
}

type FlushKeyReply struct{}

type EnumKeyRequest struct {
	Handle    types.KeyID
	Index     int
	InfoClass types.KeyInfoClass
}

type EnumKeyReply struct {
	Meta types.KeyMeta
	// FullName carries the reconstructed path for KeyInfoName; empty for
	// every other info class.
	FullName string
}

type SetKeyValueRequest struct {
	Handle types.KeyID
	Name   string
	Type   types.RegType
	Data   []byte
}

type SetKeyValueReply struct{}

type GetKeyValueRequest struct {
	Handle types.KeyID
	Name   string
}

type GetKeyValueReply struct {
	Type types.RegType
	Data []byte
}

type EnumKeyValueRequest struct {
	Handle    types.KeyID
	Index     int
	InfoClass types.ValueInfoClass
}

type EnumKeyValueReply struct {
	Meta types.ValueMeta
	Data []byte
}

type DeleteKeyValueRequest struct {
	Handle types.KeyID
	Name   string
}

type DeleteKeyValueReply struct{}

// LoadRegistryRequest loads a WINE-dialect text file as a new subtree under
// Attributes.Root/Attributes.Path.
type LoadRegistryRequest struct {
	Process    uint64
	Attributes ObjectAttributes
	FilePath   string
	Arch       string
}

type LoadRegistryReply struct {
	Handle types.KeyID
}

// UnloadRegistryRequest detaches (deletes) a previously loaded branch.
// Requires restore privilege; see DESIGN.md for why this resolves to a
// delete rather than a detach-without-delete.
type UnloadRegistryRequest struct {
	Process uint64
	Handle  types.KeyID
}

type UnloadRegistryReply struct{}

// SaveRegistryRequest renders Handle's subtree to FilePath immediately,
// outside the periodic scheduler.
type SaveRegistryRequest struct {
	Process  uint64
	Handle   types.KeyID
	FilePath string
	Arch     string
}

type SaveRegistryReply struct{}

// SetRegistryNotificationRequest arms a change notification. EventHandle names the caller's event within Process; the actual
// wakeup plumbing (mapping EventHandle to something a transport can signal)
// belongs to the external handle table, so this layer only carries the
// identifiers through to registry.Event.
type SetRegistryNotificationRequest struct {
	Handle      types.KeyID
	Process     uint64
	EventHandle uint64
	Subtree     bool
	Filter      types.ChangeKind
	Event       *registry.Event
}

// SetRegistryNotificationReply is always returned alongside ErrPending on
// success.
type SetRegistryNotificationReply struct{}
