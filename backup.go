package hwid

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/darkit/hwid/internal/logging"
)

// RegFileHeader opens every .reg file produced by BackupRegistryKeys.
const RegFileHeader = "Windows Registry Editor Version 5.00"

// regEncoding is the UTF-16LE with BOM encoding used by reg.exe.
var regEncoding = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)

// BackupRegistryKeys exports every key in BackupKeys into a single .reg file at path.
func (g *Gateway) BackupRegistryKeys(ctx context.Context, path string) error {
	const op = "BackupRegistryKeys"
	if err := g.requireElevation(op); err != nil {
		return err
	}
	log := logging.WithOp(g.log, op)

	dir, err := os.MkdirTemp(g.tempDir, "hwid-export-")
	if err != nil {
		return newError(KindIO, op, "cannot create staging directory", err)
	}
	defer os.RemoveAll(dir)

	var b strings.Builder
	b.WriteString(RegFileHeader + "\r\n\r\n")
	for i, key := range BackupKeys {
		tmp := filepath.Join(dir, fmt.Sprintf("export-%d.reg", i))
		if _, err := g.executor.Execute(ctx, "reg", "export", key, tmp, "/y"); err != nil {
			return newError(KindExternalTool, op, "reg export "+key+": "+diagnostic(err), err)
		}
		body, err := readRegExport(tmp)
		if err != nil {
			return newError(KindIO, op, "cannot read export of "+key, err)
		}
		b.WriteString(body)
		log.DebugContext(ctx, "key exported", "key", key)
	}

	data, err := regEncoding.NewEncoder().Bytes([]byte(b.String()))
	if err != nil {
		return newError(KindIO, op, "cannot encode backup", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return newError(KindIO, op, "cannot write "+path, err)
	}
	log.InfoContext(ctx, "registry backup written", "file", path, "keys", len(BackupKeys))
	return nil
}

// readRegExport decodes a reg export file and drops its own header line so
// the concatenated backup carries exactly one.
func readRegExport(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := regEncoding.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	body := strings.TrimPrefix(string(text), "\ufeff")
	body = strings.TrimPrefix(body, RegFileHeader)
	body = strings.TrimLeft(body, "\r\n")
	body = strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n")
	if !strings.HasSuffix(body, "\r\n") {
		body += "\r\n"
	}
	return body, nil
}

// RestoreRegistryKeys imports path with reg import after confirmer approves.
// A nil confirmer declines.
func (g *Gateway) RestoreRegistryKeys(ctx context.Context, path string, confirmer Confirmer) error {
	const op = "RestoreRegistryKeys"
	if err := g.requireElevation(op); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newError(KindFileNotFound, op, "backup file not found: "+path, err)
		}
		return newError(KindIO, op, "cannot access "+path, err)
	}

	ok := false
	if confirmer != nil {
		var err error
		ok, err = confirmer.Confirm(ctx, "Restore registry keys from "+path+"?")
		if err != nil {
			return newError(KindCancelled, op, "confirmation failed", err)
		}
	}
	if !ok {
		return newError(KindCancelled, op, "restore cancelled", nil)
	}

	log := logging.WithOp(g.log, op)
	if _, err := g.executor.Execute(ctx, "reg", "import", path); err != nil {
		log.ErrorContext(ctx, "reg import failed", "file", path, logging.KeyError, err)
		return newError(KindImport, op, diagnostic(err), err)
	}
	log.InfoContext(ctx, "registry restored, a reboot is recommended", "file", path)
	return nil
}
