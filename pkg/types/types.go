package types

import (
	"fmt"
	"time"
)

// RegType enumerates the closed set of registry value type tags.
// Numbers align with the Windows definitions hivekit also mirrors.
type RegType uint32

const (
	REG_NONE      RegType = 0
	REG_SZ        RegType = 1
	REG_EXPAND_SZ RegType = 2
	REG_BINARY    RegType = 3
	REG_DWORD     RegType = 4
	REG_DWORD_BE  RegType = 5
	REG_LINK      RegType = 6
	REG_MULTI_SZ  RegType = 7
	REG_QWORD     RegType = 11
	// RegInvalid is returned alongside errors from Get, so the reply's type
	// field always reads "invalid" rather than a stale or zero type.
	RegInvalid RegType = 0xFFFFFFFF
)

func (t RegType) String() string {
	switch t {
	case REG_NONE:
		return "REG_NONE"
	case REG_SZ:
		return "REG_SZ"
	case REG_EXPAND_SZ:
		return "REG_EXPAND_SZ"
	case REG_BINARY:
		return "REG_BINARY"
	case REG_DWORD:
		return "REG_DWORD"
	case REG_DWORD_BE:
		return "REG_DWORD_BE"
	case REG_LINK:
		return "REG_LINK"
	case REG_MULTI_SZ:
		return "REG_MULTI_SZ"
	case REG_QWORD:
		return "REG_QWORD"
	case RegInvalid:
		return "REG_INVALID"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE_%d", int32(t))
	}
}

// SymbolicLinkValueName is the one value name a SYMLINK key may carry.
const SymbolicLinkValueName = "SymbolicLinkValue"

// Flags are the closed set of per-key attribute bits.
type Flags uint32

const (
	FlagVolatile Flags = 1 << iota
	FlagDeleted
	FlagDirty
	FlagSymlink
	FlagWow64
	FlagWowShare
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// ChangeKind is the bitmask of notification-relevant change categories.
// The engine only ever generates CHANGE_NAME and CHANGE_LAST_SET; the
// remaining Windows-standard bits are modeled so the dispatcher can
// forward filters it does not itself produce.
type ChangeKind uint32

const (
	ChangeName ChangeKind = 1 << iota
	ChangeAttributes
	ChangeLastSet
	ChangeSecurity
)

// LookupAttr carries the per-request bits that influence path resolution:
// whether the caller wants OPEN_LINK semantics (stop at the symlink itself)
// and whether the caller's bitness requests the WoW64 view.
type LookupAttr struct {
	OpenLink bool
	Wow64    bool
}

// KeyInfoClass selects the shape of an enum_key reply.
type KeyInfoClass int

const (
	KeyInfoBasic KeyInfoClass = iota
	KeyInfoNode
	KeyInfoFull
	KeyInfoCached
	KeyInfoName
)

// ValueInfoClass selects the shape of an enum_key_value reply.
type ValueInfoClass int

const (
	ValueInfoBasic ValueInfoClass = iota
	ValueInfoFull
	ValueInfoPartial
)

// KeyID is a small copyable handle into the live tree arena, mirroring
// hivekit's NodeID/ValueID pattern but indexing mutable nodes
// instead of byte offsets into an immutable mapped file.
type KeyID uint64

// InvalidKeyID never names a live key; it is the zero value.
const InvalidKeyID KeyID = 0

// KeyMeta is the cheap, read-mostly metadata surface returned by enum/stat
// calls, analogous to hivekit's KeyMeta.
type KeyMeta struct {
	ID          KeyID
	Name        string
	Class       string
	LastWrite   time.Time
	SubkeyCount int
	ValueCount  int
	Flags       Flags
}

// ValueMeta mirrors KeyMeta for values.
type ValueMeta struct {
	Name string
	Type RegType
	Size int
}

// Tick converts a time.Time to a 100ns-tick count since 1601-01-01, the
// registry's native timestamp unit.
func Tick(t time.Time) uint64 {
	const epochDelta = 116444736000000000 // 1601-01-01 -> 1970-01-01, in ticks
	return uint64(t.UnixNano()/100) + epochDelta
}

// TickToTime converts ticks-since-1601 back to a time.Time.
func TickToTime(ticks uint64) time.Time {
	const epochDelta = 116444736000000000
	nsSinceUnix := (int64(ticks) - epochDelta) * 100
	return time.Unix(0, nsSinceUnix).UTC()
}
