package engine

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrLibraryLocked = errors.New("library is locked by another run")

const lockFileName = ".musicmaid.lock"

// LockPath is the advisory lock file guarding a destination library. The
// file is left in place after a run: unlinking a flock file lets a waiting
// process lock the orphaned inode while a third one creates a fresh file,
// and both would then hold "the" lock. Organize never treats it as a
// candidate file.
func LockPath(root string) string {
	return filepath.Join(root, lockFileName)
}

// LockLibrary takes the library lock without waiting. The existence check
// and the copy that follows it are not atomic, so only one run may write
// into a library at a time.
func LockLibrary(root string) (unlock func() error, err error) {
	lock := flock.New(LockPath(root))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLibraryLocked, lock.Path())
	}
	return lock.Unlock, nil
}
