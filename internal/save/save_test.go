package save

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

func TestFlushSkipsCleanBranch(t *testing.T) {
	dir := t.TempDir()
	eng := registry.NewEngine(true)
	root := eng.Root()

	sched := NewScheduler(eng, dir, nil)
	sched.AddBranch(Branch{Root: root, Path: "system.reg", Arch: "win64"})

	if err := sched.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "system.reg")); !os.IsNotExist(err) {
		t.Fatalf("expected no file written for a clean branch, stat err = %v", err)
	}
}

func TestFlushWritesDirtyBranchAndClearsFlag(t *testing.T) {
	dir := t.TempDir()
	eng := registry.NewEngine(true)
	root := eng.Root()

	id, _, err := eng.CreateKey(root, `Software\App`, registry.CreateOptions{})
	if err != nil {
		t.Fatalf("CreateKey: %v", err)
	}
	if err := eng.SetValue(id, "Name", types.REG_SZ, types.EncodeUTF16LEZero("hi")); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	dirty, err := eng.IsDirty(root)
	if err != nil || !dirty {
		t.Fatalf("expected root to be dirty after SetValue, dirty=%v err=%v", dirty, err)
	}

	sched := NewScheduler(eng, dir, nil)
	sched.AddBranch(Branch{Root: root, Path: "system.reg", Arch: "win64"})
	if err := sched.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "system.reg"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"Name"="hi"`) {
		t.Fatalf("saved file missing expected value line, got:\n%s", data)
	}

	dirty, err = eng.IsDirty(root)
	if err != nil || dirty {
		t.Fatalf("expected root to be clean after Flush, dirty=%v err=%v", dirty, err)
	}
}

func TestFlushRewritesInPlaceOnSecondSave(t *testing.T) {
	dir := t.TempDir()
	eng := registry.NewEngine(true)
	root := eng.Root()
	sched := NewScheduler(eng, dir, nil)
	sched.AddBranch(Branch{Root: root, Path: "system.reg", Arch: "win64"})

	id, _, _ := eng.CreateKey(root, "A", registry.CreateOptions{})
	_ = eng.SetValue(id, "V", types.REG_DWORD, []byte{1, 0, 0, 0})
	if err := sched.Flush(context.Background()); err != nil {
		t.Fatalf("first Flush: %v", err)
	}

	_ = eng.SetValue(id, "V", types.REG_DWORD, []byte{2, 0, 0, 0})
	if err := sched.Flush(context.Background()); err != nil {
		t.Fatalf("second Flush: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "system.reg"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "dword:00000002") {
		t.Fatalf("expected updated value after second save, got:\n%s", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover tempfile %s after successful save", e.Name())
		}
	}
}

func TestFlushRejectsBranchExceedingMaxTotalSize(t *testing.T) {
	dir := t.TempDir()
	eng := registry.NewEngine(true)
	eng.SetLimits(types.Limits{MaxSubkeys: 512, MaxValues: 16384, MaxValueSize: 1 << 20, MaxKeyNameLen: 255, MaxValueNameLen: 255, MaxTreeDepth: 512, MaxTotalSize: 16})
	root := eng.Root()

	id, _, err := eng.CreateKey(root, `Software\App`, registry.CreateOptions{})
	if err != nil {
		t.Fatalf("CreateKey: %v", err)
	}
	if err := eng.SetValue(id, "Name", types.REG_SZ, types.EncodeUTF16LEZero("hello world, this is long")); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	sched := NewScheduler(eng, dir, nil)
	sched.AddBranch(Branch{Root: root, Path: "system.reg", Arch: "win64"})
	if err := sched.Flush(context.Background()); err == nil {
		t.Fatalf("expected Flush to reject a branch over MaxTotalSize")
	}
	if _, err := os.Stat(filepath.Join(dir, "system.reg")); !os.IsNotExist(err) {
		t.Fatalf("expected no file written when the size limit is exceeded, stat err = %v", err)
	}
}
