package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/idelchi/goxor/internal/fileutil"
)

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
}

func TestCommit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeFile(t, src, "source", 0o755)

	out, err := fileutil.Create(src, dst)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer out.Abort()

	if _, err := out.WriteString("converted"); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := out.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}

	if string(got) != "converted" {
		t.Fatalf("dst = %q, want %q", got, "converted")
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat dst: %v", err)
	}

	if info.Mode().Perm() != 0o711 {
		t.Fatalf("perm = %o, want 711", info.Mode().Perm())
	}

	out.Abort()

	if !fileutil.Exists(dst) {
		t.Fatal("Abort after Commit removed the target")
	}
}

func TestAbortRemovesTemp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")

	writeFile(t, src, "source", 0o600)

	out, err := fileutil.Create(src, filepath.Join(dir, "dst"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tmp := out.Name()

	out.Abort()

	if fileutil.Exists(tmp) {
		t.Fatalf("temporary file %q left behind", tmp)
	}

	if fileutil.Exists(filepath.Join(dir, "dst")) {
		t.Fatal("target created without Commit")
	}
}

func TestCreateMissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := fileutil.Create(filepath.Join(dir, "missing"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("Create with missing source: expected error")
	}
}

func TestEnsureDirAndFinalize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "file")

	if err := fileutil.EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}

	writeFile(t, path, "12345", 0o600)

	modTime := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)

	size, err := fileutil.Finalize(path, true, modTime)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if size != 5 {
		t.Fatalf("size = %d, want 5", size)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if !info.ModTime().Equal(modTime) {
		t.Fatalf("mtime = %v, want %v", info.ModTime(), modTime)
	}
}
