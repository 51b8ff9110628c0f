package fileops

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	statFile   = os.Stat
	lstatFile  = os.Lstat
	renameFile = os.Rename
	removeFile = os.Remove
	chtimes    = os.Chtimes
	syncFile   = func(f *os.File) error { return f.Sync() }
)

const stagedSuffix = ".musicmaid-tmp"

// Exists reports whether something, including a dangling symlink, occupies
// path. Errors other than not-exist are returned so callers do not mistake
// an unreadable location for a free one.
func Exists(path string) (bool, error) {
	_, err := lstatFile(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// CopyVerified copies src to dst keeping permissions and modification time.
// Content is written to a hidden staged file next to dst, read back and
// compared against the source hash, and only then renamed to dst, so dst
// never exists in a half-written state. The staged file is removed on any
// failure.
func CopyVerified(src string, dst string) error {
	info, err := statFile(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source is not a regular file: %s", src)
	}

	staged := StagedPath(dst)
	if err := copyStaged(src, staged, info); err != nil {
		_ = removeFile(staged)
		return err
	}

	if err := renameFile(staged, dst); err != nil {
		_ = removeFile(staged)
		return fmt.Errorf("move staged copy into place: %w", err)
	}
	return nil
}

// StagedPath returns a unique hidden sibling of dst used while copying.
func StagedPath(dst string) string {
	return filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+uuid.NewString()+stagedSuffix)
}

func copyStaged(src string, staged string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(staged, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create staged copy: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err != nil {
		return fmt.Errorf("copy content: %w", err)
	}
	if err := syncFile(out); err != nil {
		return fmt.Errorf("flush staged copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close staged copy: %w", err)
	}

	if written != info.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	copied, err := hashFile(staged)
	if err != nil {
		return fmt.Errorf("verify staged copy: %w", err)
	}
	if !bytes.Equal(srcHasher.Sum(nil), copied) {
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	if err := os.Chmod(staged, info.Mode().Perm()); err != nil {
		return fmt.Errorf("copy permissions: %w", err)
	}
	if err := chtimes(staged, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("copy timestamps: %w", err)
	}
	return nil
}

func hashFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return nil, err
	}
	return hasher.Sum(nil), nil
}

// Remove deletes a single file.
func Remove(path string) error {
	return removeFile(path)
}
