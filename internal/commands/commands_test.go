package commands_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/goxor/internal/commands"
	"github.com/idelchi/goxor/internal/config"
	"github.com/idelchi/goxor/internal/keystream"
)

// The commands bind flags through the global viper instance, so tests here run sequentially.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := commands.NewRootCommand(&config.Config{}, "test")
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func TestEncryptDecryptCommands(t *testing.T) {
	src := t.TempDir()
	enc := t.TempDir()
	dec := t.TempDir()

	if err := os.MkdirAll(filepath.Join(src, "nested"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(src, "nested", "a.txt"), []byte("command line"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	stdout, _, err := execute(t, "encrypt", "--key", "cli-key", "--suffix", ".txt", "-o", enc, "--chunk-size", "3", src)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if !strings.Contains(stdout, "a.txt.encrypted") {
		t.Fatalf("encrypt stdout = %q", stdout)
	}

	if _, _, err := execute(t, "dec", "-k", "cli-key", "-o", dec, enc); err != nil {
		t.Fatalf("decrypt: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dec, "nested", "a.txt"))
	if err != nil || string(got) != "command line" {
		t.Fatalf("decrypted = %q, %v", got, err)
	}
}

func TestValidationErrors(t *testing.T) {
	dir := t.TempDir()

	tests := [][]string{
		{"encrypt", "--key", "a", "--key-file", "b", dir},
		{"encrypt", "--parallel", "0", dir},
		{"encrypt", "--chunk-size", "0", dir},
		{"decrypt", "--encrypt-ext", "", dir},
	}

	for _, args := range tests {
		if _, _, err := execute(t, args...); !errors.Is(err, config.ErrUsage) {
			t.Errorf("%v: error = %v, want validation error", args, err)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	stdout, _, err := execute(t, "generate", "--length", "24")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	key := strings.TrimSpace(stdout)
	if len(key) != 24 {
		t.Fatalf("key %q has length %d, want 24", key, len(key))
	}

	for _, r := range key {
		if !strings.ContainsRune(keystream.Alphabet, r) {
			t.Fatalf("character %q not in alphabet", r)
		}
	}

	if _, _, err := execute(t, "gen", "-l", "0"); err == nil {
		t.Fatal("generate with length 0: expected error")
	}
}

func TestEnvironmentKey(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("env"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("GOXOR_KEY", "from-env")
	t.Setenv("GOXOR_ENCRYPT_EXT", ".xor")

	_, stderr, err := execute(t, "encrypt", dir)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if strings.Contains(stderr, "Generated random key") {
		t.Fatal("key from environment was ignored")
	}

	if _, err := os.Stat(filepath.Join(dir, "a.txt.xor")); err != nil {
		t.Fatalf("encrypt ext from environment ignored: %v", err)
	}
}

// captureStdout returns what fn writes to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}

	stdout := os.Stdout
	os.Stdout = w

	defer func() { os.Stdout = stdout }()

	done := make(chan []byte)

	go func() {
		out, _ := io.ReadAll(r)
		done <- out
	}()

	fn()

	w.Close()

	return string(<-done)
}

func TestShowCommand(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("untouched"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var err error

	out := captureStdout(t, func() {
		_, _, err = execute(t, "encrypt", "--show", "--key", "visible?", dir)
	})

	if !errors.Is(err, cobraext.ErrExitGracefully) {
		t.Fatalf("show: error = %v, want ErrExitGracefully", err)
	}

	if strings.Contains(out, "visible?") {
		t.Fatalf("show leaked the key: %q", out)
	}

	if !strings.Contains(out, "32KiB") {
		t.Fatalf("show output = %q", out)
	}

	if _, err := os.Stat(filepath.Join(dir, "a.txt.encrypted")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("show processed files")
	}
}
