// Package config resolves the server's startup configuration: the config
// directory, the architecture prefix, and the well-known save-branch table,
// read from environment and flags with flags taking precedence.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joshuapare/hivekit/pkg/types"
)

// Arch is the architecture prefix, "win32" or "win64".
type Arch string

const (
	ArchWin32 Arch = "win32"
	ArchWin64 Arch = "win64"
)

// Config is the resolved set of values cmd/regsrvd needs at startup.
type Config struct {
	// ConfigDir holds system.reg, userdef.reg, and user.reg.
	ConfigDir string
	Arch      Arch
	// UserSID names the current-user branch's \REGISTRY\User\<sid> mount
	// point.
	UserSID string
	// ListenAddr is the transport's bind address: cmd/regsrvd's own concrete
	// transport choice, since the core engine stays transport-agnostic.
	ListenAddr string
	// Limits bounds subkey/value counts, value size, name lengths, tree
	// depth, and total branch size; selected via the --limits profile.
	Limits types.Limits
}

// Branch names one of the three well-known save branches loaded at startup.
type Branch struct {
	MountPath string // path under \REGISTRY
	FileName  string // relative to ConfigDir
}

// WellKnownBranches returns the three branches loaded at startup, each
// MountPath relative to the \REGISTRY root.
func (c Config) WellKnownBranches() []Branch {
	return []Branch{
		{MountPath: `Machine`, FileName: "system.reg"},
		{MountPath: `User\.Default`, FileName: "userdef.reg"},
		{MountPath: `User\` + c.UserSID, FileName: "user.reg"},
	}
}

// Resolve derives a Config from the environment and CLI overrides. archFlag
// is the --arch flag's value ("" meaning unset); when set it takes the place
// of WINEARCH. "win32" forces 32-bit; "win64" or an unset value uses the
// host pointer width, and "win64" on a 32-bit host is an error; any other
// value is an error. limitsFlag selects the resource-limits profile: "" (default),
// "relaxed", or "strict".
func Resolve(configDir, userSID, archFlag, listenAddr, limitsFlag string) (Config, error) {
	if configDir == "" {
		return Config{}, fmt.Errorf("config: config directory is required")
	}
	if userSID == "" {
		userSID = "S-1-5-21-0-0-0-1000"
	}

	want := archFlag
	if want == "" {
		want = os.Getenv("WINEARCH")
	}

	var arch Arch
	switch want {
	case "win32":
		arch = ArchWin32
	case "", "win64":
		arch = hostArch()
		if want == "win64" && arch != ArchWin64 {
			return Config{}, fmt.Errorf("config: WINEARCH=win64 requested but host is not 64-bit")
		}
	default:
		return Config{}, fmt.Errorf("config: unrecognized WINEARCH %q", want)
	}

	if listenAddr == "" {
		listenAddr = "unix:/tmp/regsrvd.sock"
	}

	var limits types.Limits
	switch limitsFlag {
	case "", "default":
		limits = types.DefaultLimits()
	case "relaxed":
		limits = types.RelaxedLimits()
	case "strict":
		limits = types.StrictLimits()
	default:
		return Config{}, fmt.Errorf("config: unrecognized limits profile %q", limitsFlag)
	}

	return Config{ConfigDir: configDir, Arch: arch, UserSID: userSID, ListenAddr: listenAddr, Limits: limits}, nil
}

func hostArch() Arch {
	if runtime.GOARCH == "386" || runtime.GOARCH == "arm" {
		return ArchWin32
	}
	return ArchWin64
}

// Is64Bit reports whether arch selects the 64-bit prefix (passed to
// registry.NewEngine; Engine.WireWow64Mounts only wires WoW64 mounts when
// it is true).
func (a Arch) Is64Bit() bool { return a == ArchWin64 }
