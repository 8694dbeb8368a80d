package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/hivekit/internal/config"
	"github.com/joshuapare/hivekit/internal/dispatch"
	"github.com/joshuapare/hivekit/internal/regtext"
	"github.com/joshuapare/hivekit/internal/save"
	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

// server wires the engine, the save scheduler, and the dispatcher behind
// the JSON transport, and implements the startup/teardown sequence.
type server struct {
	cfg   config.Config
	log   *slog.Logger
	eng   *registry.Engine
	saver *save.Scheduler
	disp  *dispatch.Dispatcher
	root  types.KeyID

	ln net.Listener
}

func newServer(cfg config.Config, log *slog.Logger) (*server, error) {
	eng := registry.NewEngine(cfg.Arch.Is64Bit())
	eng.SetLimits(cfg.Limits)
	root := eng.Root()

	machineRoot, _, err := eng.CreateKey(root, `Machine`, registry.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("creating \\REGISTRY\\Machine: %w", err)
	}
	if err := eng.WireWow64Mounts(machineRoot); err != nil {
		return nil, fmt.Errorf("wiring WoW64 mounts: %w", err)
	}

	saver := save.NewScheduler(eng, cfg.ConfigDir, log)

	s := &server{cfg: cfg, log: log, eng: eng, saver: saver, root: root}

	for _, b := range cfg.WellKnownBranches() {
		branchRoot, _, err := eng.CreateKey(root, b.MountPath, registry.CreateOptions{})
		if err != nil {
			return nil, fmt.Errorf("creating \\REGISTRY\\%s: %w", b.MountPath, err)
		}
		if err := s.loadInitFile(branchRoot, filepath.Join(cfg.ConfigDir, b.FileName)); err != nil {
			return nil, err
		}
		saver.AddBranch(save.Branch{Root: branchRoot, Path: b.FileName, Arch: string(cfg.Arch)})
	}

	s.disp = dispatch.New(eng, saver, nil, cfg.Arch.Is64Bit(), log)
	return s, nil
}

// loadInitFile loads one of the three well-known files; a missing file is tolerated, matching "missing files are
// tolerated" in the startup/teardown design note.
func (s *server) loadInitFile(branchRoot types.KeyID, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := regtext.Load(f, s.eng, branchRoot, regtext.LoadOptions{WantArch: string(s.cfg.Arch), Log: s.log}); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Serve starts the save timer and accepts connections until ctx is done.
func (s *server) Serve(ctx context.Context) error {
	ln, err := listen(s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("regsrvd: %w", err)
	}
	s.ln = ln
	s.saver.Start(ctx)

	s.log.Info("listening", "addr", s.cfg.ListenAddr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("regsrvd: accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

// Shutdown runs the documented teardown sequence: cancel the timer, flush
// all dirty branches, then tear down the whole tree.
func (s *server) Shutdown(ctx context.Context) error {
	if s.ln != nil {
		s.ln.Close()
	}
	s.saver.Stop()
	if err := s.saver.Flush(ctx); err != nil {
		s.log.Error("flush during shutdown failed", "error", err)
	}
	return s.eng.Close()
}

func listen(addr string) (net.Listener, error) {
	network, target, ok := strings.Cut(addr, ":")
	if !ok {
		return nil, fmt.Errorf("listen address %q must be network:target (e.g. unix:/tmp/regsrvd.sock)", addr)
	}
	if network == "unix" {
		_ = os.Remove(target)
		return net.Listen("unix", target)
	}
	return net.Listen(network, target)
}
