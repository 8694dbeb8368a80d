package types

import (
	"errors"
	"testing"
)

func TestErrorErrorFormatsKindAndMessage(t *testing.T) {
	e := New(ErrKindNotFound, "key %q missing", "Software")
	want := `OBJECT_NAME_NOT_FOUND: key "Software" missing`
	if got := e.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestErrorErrorIncludesWrappedCause(t *testing.T) {
	cause := errors.New("disk full")
	e := Wrap(ErrKindNoMemory, cause, "allocating key")
	if got := e.Error(); got != "NO_MEMORY: allocating key: disk full" {
		t.Fatalf("got %q", got)
	}
	if !errors.Is(e, cause) {
		t.Fatalf("errors.Is should unwrap to the cause")
	}
}

func TestErrorIsComparesByKindNotMessage(t *testing.T) {
	a := New(ErrKindAccessDenied, "process 1 lacks SeBackupPrivilege")
	b := New(ErrKindAccessDenied, "process 2 lacks SeRestorePrivilege")
	if !errors.Is(a, b) {
		t.Fatalf("errors with the same kind should compare equal via Is")
	}
	if errors.Is(a, ErrNotFound) {
		t.Fatalf("errors with different kinds should not compare equal")
	}
}

func TestNilErrorStringDoesNotPanic(t *testing.T) {
	var e *Error
	if got := e.Error(); got != "<nil>" {
		t.Fatalf("got %q, want <nil>", got)
	}
}

func TestSentinelsHaveDistinctKinds(t *testing.T) {
	sentinels := []*Error{
		ErrNotFound, ErrPathInvalid, ErrNameInvalid, ErrInvalidParam,
		ErrNameTooLong, ErrMustBeVolatile, ErrAccessDenied, ErrKeyDeleted,
		ErrNoMoreEntries, ErrNotRegistryFile, ErrPrivilegeHeld, ErrPending,
	}
	seen := make(map[ErrKind]bool)
	for _, s := range sentinels {
		if seen[s.Kind] {
			t.Fatalf("duplicate ErrKind %v among sentinels", s.Kind)
		}
		seen[s.Kind] = true
	}
}
