// Package dispatch exposes the thirteen request/reply commands as plain Go
// methods taking and returning structs — a wire-protocol-agnostic core,
// with the concrete transport left to cmd/regsrvd.
//
// Dispatcher depends on narrow interfaces rather than the concrete engine
// type, grounded on hivekit's Reader/Editor/Tx capability-interface split
// between read-only and mutating access.
package dispatch

import (
	"log/slog"

	"github.com/joshuapare/hivekit/internal/save"
	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

// Lookuper is the read-only subset of the engine a dispatcher needs.
type Lookuper interface {
	OpenKey(parent types.KeyID, path string, opts registry.OpenOptions) (types.KeyID, error)
	StatKey(id types.KeyID) (types.KeyMeta, error)
	FullPath(id types.KeyID) (string, error)
	EnumKey(id types.KeyID, index int, infoClass types.KeyInfoClass) (types.KeyMeta, string, error)
	GetValue(id types.KeyID, name string) (types.RegType, []byte, error)
	EnumValue(id types.KeyID, index int, infoClass types.ValueInfoClass) (types.ValueMeta, []byte, error)
}

// Mutator is the subset of the engine that changes tree state.
type Mutator interface {
	CreateKey(parent types.KeyID, path string, opts registry.CreateOptions) (types.KeyID, bool, error)
	DeleteKey(id types.KeyID, recursive bool) error
	SetValue(id types.KeyID, name string, typ types.RegType, data []byte) error
	DeleteValue(id types.KeyID, name string) error
}

// Notifier is the subset of the engine that arms and detaches subscriptions.
type Notifier interface {
	SetNotification(id types.KeyID, process, handle uint64, filter types.ChangeKind, subtree bool, ev *registry.Event) error
	RemoveNotification(id types.KeyID, process, handle uint64)
}

// Engine is the full surface a Dispatcher needs from the tree engine.
type Engine interface {
	Lookuper
	Mutator
	Notifier
	Root() types.KeyID
	DefaultSecurityDescriptor() *registry.SecurityDescriptor
}

// PrivilegeChecker models the restore/backup privilege checks load_registry,
// unload_registry, and save_registry require. The token
// and privilege set live in the process/handle table, an external
// collaborator this module only consumes through this
// interface; a nil PrivilegeChecker on the Dispatcher treats every privilege
// as held, appropriate for single-user embeddings that have no token model.
type PrivilegeChecker interface {
	HasPrivilege(process uint64, privilege string) bool
}

const (
	PrivilegeRestore = "SeRestorePrivilege"
	PrivilegeBackup  = "SeBackupPrivilege"
)

// Dispatcher implements the thirteen request/reply commands against an
// Engine, a save.Scheduler (for flush_key and save_registry's atomic-write
// path), and the regtext codec (for load_registry/save_registry's file
// encoding).
//
// Every handler but load_registry/save_registry reaches the tree only
// through the Lookuper/Mutator/Notifier interfaces above. load_registry and
// save_registry are the one exception: regtext.Load/Save take the concrete
// *registry.Engine (they mutate unexported Key fields through Engine's own
// methods, not through an interface), so Dispatcher keeps a second,
// concrete reference to the same engine value purely for those two calls.
type Dispatcher struct {
	eng    Engine
	engine *registry.Engine
	saver  *save.Scheduler
	priv   PrivilegeChecker
	log    *slog.Logger

	is64BitPrefix bool
}

// New creates a Dispatcher. saver and priv may be nil: a nil saver makes
// flush_key a no-op and save_registry skip scheduling, and a nil priv
// grants every privilege unconditionally.
func New(eng *registry.Engine, saver *save.Scheduler, priv PrivilegeChecker, is64BitPrefix bool, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{eng: eng, engine: eng, saver: saver, priv: priv, is64BitPrefix: is64BitPrefix, log: log}
}

func (d *Dispatcher) checkPrivilege(process uint64, priv string) error {
	if d.priv == nil {
		return nil
	}
	if !d.priv.HasPrivilege(process, priv) {
		return types.New(types.ErrKindPrivilegeNotHeld, "process %d lacks %s", process, priv)
	}
	return nil
}

// resolveAttr derives the lookup attributes a request's raw access mask and
// caller bitness imply, via registry.MapGenericAccess/WantsWow64View.
func (d *Dispatcher) resolveAttr(access registry.AccessMask, callerIs32Bit, openLink bool) (types.LookupAttr, registry.AccessMask) {
	mapped := registry.MapGenericAccess(access)
	wow64 := registry.WantsWow64View(access, callerIs32Bit, d.is64BitPrefix)
	return types.LookupAttr{OpenLink: openLink, Wow64: wow64}, mapped
}
