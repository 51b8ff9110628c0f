package fileops

import (
	"os"
	"path/filepath"
)

var readDir = os.ReadDir

// DirEmpty reports whether dir has no entries once entries matching gone are
// disregarded. gone may be nil; dry runs use it to treat planned removals as
// already done.
func DirEmpty(dir string, gone func(path string) bool) (bool, error) {
	entries, err := readDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if gone != nil && gone(filepath.Join(dir, entry.Name())) {
			continue
		}
		return false, nil
	}
	return true, nil
}

// RemoveDir removes an empty directory. It never removes contents.
func RemoveDir(dir string) error {
	return removeFile(dir)
}
