package store

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic replaces path with b through a temp file and rename, so concurrent readers
// (CLI, TUI and server) never see a partial file.
func WriteFileAtomic(path string, b []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// ReplaceFileWithBackup is WriteFileAtomic that first keeps the previous content as path.bak.
// Backup failures are ignored.
func ReplaceFileWithBackup(path string, b []byte, perm os.FileMode) error {
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = WriteFileAtomic(path+".bak", prev, perm)
	}
	return WriteFileAtomic(path, b, perm)
}
