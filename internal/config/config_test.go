package config

import (
	"testing"

	"github.com/joshuapare/hivekit/pkg/types"
)

func TestResolveDefaultsUserSID(t *testing.T) {
	cfg, err := Resolve("/tmp/cfg", "", "win32", "", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.UserSID == "" {
		t.Fatalf("expected a default UserSID to be filled in")
	}
	if cfg.Arch != ArchWin32 {
		t.Fatalf("expected win32 arch override to stick, got %v", cfg.Arch)
	}
}

func TestResolveRejectsUnknownArch(t *testing.T) {
	if _, err := Resolve("/tmp/cfg", "", "win16", "", ""); err == nil {
		t.Fatalf("expected an error for an unrecognized WINEARCH value")
	}
}

func TestResolveRequiresConfigDir(t *testing.T) {
	if _, err := Resolve("", "", "", "", ""); err == nil {
		t.Fatalf("expected an error for a missing config directory")
	}
}

func TestWellKnownBranches(t *testing.T) {
	cfg, err := Resolve("/tmp/cfg", "S-1-5-21-1-2-3-1001", "win32", "", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	branches := cfg.WellKnownBranches()
	if len(branches) != 3 {
		t.Fatalf("expected 3 well-known branches, got %d", len(branches))
	}
	if branches[2].MountPath != `User\S-1-5-21-1-2-3-1001` {
		t.Fatalf("unexpected user branch mount path: %q", branches[2].MountPath)
	}
}

func TestResolveDefaultsLimitsProfile(t *testing.T) {
	cfg, err := Resolve("/tmp/cfg", "", "", "", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Limits != types.DefaultLimits() {
		t.Fatalf("expected default limits profile")
	}
}

func TestResolveAppliesRelaxedAndStrictLimitsProfiles(t *testing.T) {
	relaxed, err := Resolve("/tmp/cfg", "", "", "", "relaxed")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if relaxed.Limits != types.RelaxedLimits() {
		t.Fatalf("expected relaxed limits profile")
	}

	strict, err := Resolve("/tmp/cfg", "", "", "", "strict")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if strict.Limits != types.StrictLimits() {
		t.Fatalf("expected strict limits profile")
	}
}

func TestResolveRejectsUnknownLimitsProfile(t *testing.T) {
	if _, err := Resolve("/tmp/cfg", "", "", "", "bogus"); err == nil {
		t.Fatalf("expected an error for an unrecognized limits profile")
	}
}
