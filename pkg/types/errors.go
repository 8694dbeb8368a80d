// Package types holds the wire-level vocabulary shared by the registry
// engine, its text persister, and its command dispatcher: the closed error
// set, registry value types, change-kind bitmask, and key flags.
package types

import "fmt"

// ErrKind classifies engine errors so callers can branch on intent rather
// than on error text. The set is closed and mirrors the registry's own
// NTSTATUS-derived error codes.
type ErrKind int

const (
	ErrKindNotFound         ErrKind = iota // OBJECT_NAME_NOT_FOUND
	ErrKindNameCollision                   // OBJECT_NAME_COLLISION / OBJECT_NAME_EXISTS
	ErrKindPathInvalid                     // OBJECT_PATH_INVALID
	ErrKindNameInvalid                     // OBJECT_NAME_INVALID
	ErrKindInvalidParameter                // INVALID_PARAMETER
	ErrKindNameTooLong                     // NAME_TOO_LONG
	ErrKindMustBeVolatile                  // CHILD_MUST_BE_VOLATILE
	ErrKindAccessDenied                    // ACCESS_DENIED
	ErrKindKeyDeleted                      // KEY_DELETED
	ErrKindNoMoreEntries                   // NO_MORE_ENTRIES
	ErrKindNoMemory                        // NO_MEMORY
	ErrKindNotRegistryFile                 // NOT_REGISTRY_FILE
	ErrKindPrivilegeNotHeld                // PRIVILEGE_NOT_HELD
	ErrKindPending                         // PENDING (notification armed)
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "OBJECT_NAME_NOT_FOUND"
	case ErrKindNameCollision:
		return "OBJECT_NAME_COLLISION"
	case ErrKindPathInvalid:
		return "OBJECT_PATH_INVALID"
	case ErrKindNameInvalid:
		return "OBJECT_NAME_INVALID"
	case ErrKindInvalidParameter:
		return "INVALID_PARAMETER"
	case ErrKindNameTooLong:
		return "NAME_TOO_LONG"
	case ErrKindMustBeVolatile:
		return "CHILD_MUST_BE_VOLATILE"
	case ErrKindAccessDenied:
		return "ACCESS_DENIED"
	case ErrKindKeyDeleted:
		return "KEY_DELETED"
	case ErrKindNoMoreEntries:
		return "NO_MORE_ENTRIES"
	case ErrKindNoMemory:
		return "NO_MEMORY"
	case ErrKindNotRegistryFile:
		return "NOT_REGISTRY_FILE"
	case ErrKindPrivilegeNotHeld:
		return "PRIVILEGE_NOT_HELD"
	case ErrKindPending:
		return "PENDING"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed engine error with an optional wrapped cause, replacing
// a Win32-style thread-local "last error" slot with an explicit result
// carried on every fallible operation.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, types.ErrNotFound) style comparisons by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error of the given kind with a formatted message.
func New(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind wrapping an underlying cause.
func Wrap(kind ErrKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Sentinels for the common cases callers compare against directly.
var (
	ErrNotFound        = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	ErrPathInvalid     = &Error{Kind: ErrKindPathInvalid, Msg: "path invalid"}
	ErrNameInvalid     = &Error{Kind: ErrKindNameInvalid, Msg: "name invalid"}
	ErrInvalidParam    = &Error{Kind: ErrKindInvalidParameter, Msg: "invalid parameter"}
	ErrNameTooLong     = &Error{Kind: ErrKindNameTooLong, Msg: "name too long"}
	ErrMustBeVolatile  = &Error{Kind: ErrKindMustBeVolatile, Msg: "child must be volatile"}
	ErrAccessDenied    = &Error{Kind: ErrKindAccessDenied, Msg: "access denied"}
	ErrKeyDeleted      = &Error{Kind: ErrKindKeyDeleted, Msg: "key deleted"}
	ErrNoMoreEntries   = &Error{Kind: ErrKindNoMoreEntries, Msg: "no more entries"}
	ErrNotRegistryFile = &Error{Kind: ErrKindNotRegistryFile, Msg: "not a registry file"}
	ErrPrivilegeHeld   = &Error{Kind: ErrKindPrivilegeNotHeld, Msg: "privilege not held"}
	ErrPending         = &Error{Kind: ErrKindPending, Msg: "notification pending"}
)
