//go:build !windows

package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const lockFile = "index.lock"

// Lock is an exclusive lock on one index directory. It keeps two scans
// from writing the same database at once.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock takes a non-blocking exclusive lock on dir, creating the
// directory if needed. It fails when another process holds the lock.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	path := filepath.Join(dir, lockFile)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()
		if content, readErr := os.ReadFile(path); readErr == nil && len(content) > 0 {
			pid := strings.TrimSpace(string(content))
			return nil, fmt.Errorf("index is locked by another esmap process (PID %s)", pid)
		}
		return nil, fmt.Errorf("index is locked by another esmap process")
	}

	if err := file.Truncate(0); err != nil {
		unlock(file)
		return nil, fmt.Errorf("truncating lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		unlock(file)
		return nil, fmt.Errorf("seeking lock file: %w", err)
	}
	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		unlock(file)
		return nil, fmt.Errorf("writing pid to lock file: %w", err)
	}

	return &Lock{path: path, file: file}, nil
}

func unlock(file *os.File) {
	_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
	_ = file.Close()
}

// Release drops the lock and removes the lock file. Safe on a nil lock.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	unlock(l.file)
	_ = os.Remove(l.path)
}
