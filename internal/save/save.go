// Package save implements the periodic and on-demand persistence of
// registry branches to the WINE-dialect text format.
package save

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joshuapare/hivekit/internal/regtext"
	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

// DefaultInterval is the periodic save timer's period.
const DefaultInterval = 30 * time.Second

// Branch is one (branch-key, destination path) pair in the save-branch
// set: system.reg, userdef.reg, and one user.reg
// per loaded user hive each register a Branch at startup.
type Branch struct {
	Root types.KeyID
	Path string // joined with the Scheduler's config directory
	Arch string
}

// Scheduler owns the periodic save timer and the save-branch set, running
// the same per-branch save routine on timer fire and on an explicit Flush.
type Scheduler struct {
	eng      *registry.Engine
	dir      string
	interval time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	branches []Branch

	counter atomic.Uint64
	stop    chan struct{}
	done    chan struct{}
}

// NewScheduler creates a save scheduler rooted at configDir.
func NewScheduler(eng *registry.Engine, configDir string, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		eng:      eng,
		dir:      configDir,
		interval: DefaultInterval,
		log:      log,
	}
}

// AddBranch registers a branch to be saved on each timer fire and on Flush.
func (s *Scheduler) AddBranch(b Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches = append(s.branches, b)
}

// Start begins the periodic save timer; it runs until ctx is done or Stop
// is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-t.C:
			if err := s.saveAll(ctx); err != nil {
				s.log.Error("periodic registry save failed", "error", err)
			}
		}
	}
}

// Stop halts the periodic timer and waits for any in-flight save to return.
func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
}

// Flush runs the save routine for every registered branch immediately,
// the same routine the periodic timer uses.
func (s *Scheduler) Flush(ctx context.Context) error {
	return s.saveAll(ctx)
}

func (s *Scheduler) saveAll(ctx context.Context) error {
	s.mu.Lock()
	branches := append([]Branch(nil), s.branches...)
	s.mu.Unlock()

	var firstErr error
	for _, b := range branches {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		dirty, err := s.eng.IsDirty(b.Root)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !dirty {
			continue
		}
		if err := s.saveBranch(b); err != nil {
			s.log.Error("registry branch save failed", "path", b.Path, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := s.eng.ClearDirtySubtree(b.Root); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FlushKey forces a synchronous save of whichever registered branch
// contains id, if that branch is dirty, and is a no-op if id falls under no
// registered branch. This gives flush_key a
// concrete, branch-scoped effect using the identical save routine the
// periodic timer and Flush use.
func (s *Scheduler) FlushKey(id types.KeyID) error {
	full, err := s.eng.FullPath(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	branches := append([]Branch(nil), s.branches...)
	s.mu.Unlock()

	for _, b := range branches {
		bfull, err := s.eng.FullPath(b.Root)
		if err != nil {
			continue
		}
		if full != bfull && !strings.HasPrefix(full, bfull+`\`) {
			continue
		}
		dirty, err := s.eng.IsDirty(b.Root)
		if err != nil {
			return err
		}
		if !dirty {
			return nil
		}
		if err := s.saveBranch(b); err != nil {
			return err
		}
		return s.eng.ClearDirtySubtree(b.Root)
	}
	return nil
}

func (s *Scheduler) saveBranch(b Branch) error {
	data, err := regtext.Save(s.eng, b.Root, regtext.SaveOptions{Arch: b.Arch, BasePath: b.Path})
	if err != nil {
		return fmt.Errorf("save: rendering %s: %w", b.Path, err)
	}
	if err := s.checkTotalSize(b.Path, data); err != nil {
		return err
	}
	return s.writeAtomic(filepath.Join(s.dir, b.Path), data)
}

// SaveTo renders root's subtree and writes it to an arbitrary destination
// path using the same atomic-write protocol as a scheduled branch, for
// save_registry requests that target a handle outside the configured
// save-branch set.
func (s *Scheduler) SaveTo(root types.KeyID, destPath, arch string) error {
	data, err := regtext.Save(s.eng, root, regtext.SaveOptions{Arch: arch, BasePath: destPath})
	if err != nil {
		return fmt.Errorf("save: rendering %s: %w", destPath, err)
	}
	if err := s.checkTotalSize(destPath, data); err != nil {
		return err
	}
	return s.writeAtomic(destPath, data)
}

// checkTotalSize rejects a rendered branch whose size exceeds the engine's
// configured Limits.MaxTotalSize, before anything is written to disk.
func (s *Scheduler) checkTotalSize(path string, data []byte) error {
	if max := s.eng.Limits().MaxTotalSize; max > 0 && int64(len(data)) > max {
		return fmt.Errorf("save: %s: rendered size %d exceeds limit %d: %w", path, len(data), max, types.ErrInvalidParam)
	}
	return nil
}

func (s *Scheduler) writeAtomic(dest string, data []byte) error {
	inPlace, err := canWriteInPlace(dest)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("save: stat %s: %w", dest, err)
	}
	if inPlace {
		return writeInPlace(dest, data)
	}
	return writeViaTempFile(filepath.Dir(dest), dest, data, s.counter.Add(1))
}

func writeInPlace(dest string, data []byte) error {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("save: open %s: %w", dest, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("save: write %s: %w", dest, err)
	}
	return syncAndClose(f)
}

// writeViaTempFile writes to reg<pid><counter>.tmp alongside dest, and on
// success renames it over dest; on any failure the tempfile is removed
// instead.
func writeViaTempFile(dir, dest string, data []byte, counter uint64) error {
	tmp := filepath.Join(dir, fmt.Sprintf("reg%d%d.tmp", os.Getpid(), counter))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("save: create %s: %w", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("save: write %s: %w", tmp, err)
	}
	if err := syncAndClose(f); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save: rename %s over %s: %w", tmp, dest, err)
	}
	return nil
}

func syncAndClose(f *os.File) error {
	if err := fdatasync(int(f.Fd())); err != nil {
		f.Close()
		return fmt.Errorf("save: fdatasync %s: %w", f.Name(), err)
	}
	return f.Close()
}
