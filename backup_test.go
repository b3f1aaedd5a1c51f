package hwid

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeUTF16(t *testing.T, path, text string) {
	t.Helper()
	data, err := regEncoding.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBackupRegistryKeys(t *testing.T) {
	g, exec, _ := newTestGateway(t, true)
	exec.fn = func(name string, args []string) (string, error) {
		if name != "reg" || args[0] != "export" || args[3] != "/y" {
			t.Fatalf("unexpected command %s %v", name, args)
		}
		body := "[" + args[1] + "]\r\n\"Value\"=\"" + filepath.Base(args[1]) + "\"\r\n\r\n"
		writeUTF16(t, args[2], RegFileHeader+"\r\n\r\n"+body)
		return "", nil
	}

	out := filepath.Join(t.TempDir(), "hwid_backup.reg")
	if err := g.BackupRegistryKeys(context.Background(), out); err != nil {
		t.Fatalf("BackupRegistryKeys: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) {
		t.Fatalf("missing UTF-16LE BOM: % x", raw[:4])
	}
	// "W" in UTF-16LE follows the BOM
	if raw[2] != 'W' || raw[3] != 0 {
		t.Fatalf("not UTF-16LE: % x", raw[:6])
	}

	decoded, err := regEncoding.NewDecoder().Bytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.TrimPrefix(string(decoded), "\ufeff")
	if !strings.HasPrefix(text, RegFileHeader+"\r\n\r\n[") {
		t.Fatalf("bad header: %q", text[:60])
	}
	if n := strings.Count(text, RegFileHeader); n != 1 {
		t.Fatalf("header appears %d times", n)
	}
	crypto := strings.Index(text, `[HKEY_LOCAL_MACHINE\SOFTWARE\Microsoft\Cryptography]`)
	current := strings.Index(text, `[HKEY_LOCAL_MACHINE\SOFTWARE\Microsoft\Windows NT\CurrentVersion]`)
	if crypto < 0 || current < 0 || crypto > current {
		t.Fatalf("keys missing or out of order:\n%s", text)
	}

	if info, err := os.Stat(out); err == nil && info.Mode().Perm()&0o077 != 0 && os.PathSeparator == '/' {
		t.Fatalf("backup file mode %v is too open", info.Mode().Perm())
	}
}

func TestBackupRegistryKeysExportFailure(t *testing.T) {
	g, exec, _ := newTestGateway(t, true)
	exec.fn = func(name string, _ []string) (string, error) {
		return "", &CommandError{Command: name, ExitCode: 1, Stderr: "ERROR: Access is denied."}
	}
	out := filepath.Join(t.TempDir(), "b.reg")
	err := g.BackupRegistryKeys(context.Background(), out)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("err = %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatal("partial backup file left behind")
	}
}

func TestRestoreRegistryKeys(t *testing.T) {
	ctx := context.Background()
	existing := filepath.Join(t.TempDir(), "hwid_backup.reg")
	writeUTF16(t, existing, RegFileHeader+"\r\n\r\n")

	t.Run("missing file does not prompt", func(t *testing.T) {
		g, exec, _ := newTestGateway(t, true)
		prompted := false
		err := g.RestoreRegistryKeys(ctx, filepath.Join(t.TempDir(), "nope.reg"),
			ConfirmFunc(func(context.Context, string) (bool, error) { prompted = true; return true, nil }))
		if !errors.Is(err, ErrFileNotFound) {
			t.Fatalf("err = %v", err)
		}
		if prompted || len(exec.Calls()) != 0 {
			t.Fatal("prompted or imported for a missing file")
		}
	})

	t.Run("declined", func(t *testing.T) {
		g, exec, _ := newTestGateway(t, true)
		err := g.RestoreRegistryKeys(ctx, existing,
			ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil }))
		if !errors.Is(err, ErrCancelled) {
			t.Fatalf("err = %v", err)
		}
		if len(exec.Calls()) != 0 {
			t.Fatal("imported after decline")
		}
	})

	t.Run("nil confirmer declines", func(t *testing.T) {
		g, _, _ := newTestGateway(t, true)
		if err := g.RestoreRegistryKeys(ctx, existing, nil); !errors.Is(err, ErrCancelled) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("import error", func(t *testing.T) {
		g, exec, _ := newTestGateway(t, true)
		exec.fn = func(name string, _ []string) (string, error) {
			return "", &CommandError{Command: name, ExitCode: 1, Stderr: "ERROR: Error accessing the registry."}
		}
		err := g.RestoreRegistryKeys(ctx, existing, AutoConfirm)
		if !errors.Is(err, ErrImport) {
			t.Fatalf("err = %v", err)
		}
		if !strings.Contains(err.Error(), "Error accessing the registry") {
			t.Fatalf("stderr missing from %q", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		g, exec, _ := newTestGateway(t, true)
		exec.fn = func(string, []string) (string, error) { return "The operation completed successfully.", nil }
		if err := g.RestoreRegistryKeys(ctx, existing, AutoConfirm); err != nil {
			t.Fatalf("RestoreRegistryKeys: %v", err)
		}
		calls := exec.Calls()
		if len(calls) != 1 || calls[0].String() != "reg import "+existing {
			t.Fatalf("calls = %v", calls)
		}
	})
}
