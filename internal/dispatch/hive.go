package dispatch

import (
	"fmt"
	"os"

	"github.com/joshuapare/hivekit/internal/regtext"
	"github.com/joshuapare/hivekit/registry"
)

// LoadRegistry implements load_registry: parse a WINE-dialect text file into
// a freshly created key under Attributes.Root/Attributes.Path.
func (d *Dispatcher) LoadRegistry(req LoadRegistryRequest) (LoadRegistryReply, error) {
	if err := d.checkPrivilege(req.Process, PrivilegeRestore); err != nil {
		return LoadRegistryReply{}, err
	}

	id, _, err := d.eng.CreateKey(req.Attributes.Root, req.Attributes.Path, registry.CreateOptions{})
	if err != nil {
		return LoadRegistryReply{}, err
	}

	f, err := os.Open(req.FilePath)
	if err != nil {
		return LoadRegistryReply{}, fmt.Errorf("load_registry: %w", err)
	}
	defer f.Close()

	if err := regtext.Load(f, d.engine, id, regtext.LoadOptions{WantArch: req.Arch, Log: d.log}); err != nil {
		return LoadRegistryReply{}, fmt.Errorf("load_registry: %w", err)
	}
	return LoadRegistryReply{Handle: id}, nil
}

// UnloadRegistry implements unload_registry as a recursive delete of the
// loaded branch rather than a detach-and-preserve, following WINE's own
// behavior for this call (see DESIGN.md).
func (d *Dispatcher) UnloadRegistry(req UnloadRegistryRequest) (UnloadRegistryReply, error) {
	if err := d.checkPrivilege(req.Process, PrivilegeRestore); err != nil {
		return UnloadRegistryReply{}, err
	}
	if err := d.eng.DeleteKey(req.Handle, true); err != nil {
		return UnloadRegistryReply{}, err
	}
	return UnloadRegistryReply{}, nil
}

// SaveRegistry implements save_registry: render Handle's subtree to
// FilePath immediately, via the save scheduler's atomic-write protocol when
// one is wired, or a plain write otherwise.
func (d *Dispatcher) SaveRegistry(req SaveRegistryRequest) (SaveRegistryReply, error) {
	if err := d.checkPrivilege(req.Process, PrivilegeBackup); err != nil {
		return SaveRegistryReply{}, err
	}

	if d.saver != nil {
		if err := d.saver.SaveTo(req.Handle, req.FilePath, req.Arch); err != nil {
			return SaveRegistryReply{}, fmt.Errorf("save_registry: %w", err)
		}
		return SaveRegistryReply{}, nil
	}

	data, err := regtext.Save(d.engine, req.Handle, regtext.SaveOptions{Arch: req.Arch, BasePath: req.FilePath})
	if err != nil {
		return SaveRegistryReply{}, fmt.Errorf("save_registry: %w", err)
	}
	if err := os.WriteFile(req.FilePath, data, 0o644); err != nil {
		return SaveRegistryReply{}, fmt.Errorf("save_registry: %w", err)
	}
	return SaveRegistryReply{}, nil
}
