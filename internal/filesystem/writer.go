// Package filesystem writes generated files under an exclusive advisory lock.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrLockTimeout is returned when acquiring a write lock times out.
	ErrLockTimeout = errors.New("timeout acquiring lock")
	// ErrPathRequired is returned when an empty path is provided.
	ErrPathRequired = errors.New("path is required")
)

const (
	// DefaultLockTimeout bounds how long WriteFile waits for a concurrent writer.
	DefaultLockTimeout = 5 * time.Second

	lockPollInterval = 10 * time.Millisecond
	lockFileFormat   = ".%s.lock"
	temporaryPattern = ".agentkit-tmp-*"
	directoryMode    = 0o755
	defaultFileMode  = 0o644
)

// Writer creates directories and writes text files.
type Writer interface {
	WriteFile(path string, content string) error
	EnsureDirectory(path string) error
}

// LockingWriter writes files atomically while holding an OS-level lock on a sibling lock file.
type LockingWriter struct {
	LockTimeout time.Duration
	FileMode    os.FileMode
}

// NewLockingWriter returns a LockingWriter with default timeout and permissions.
func NewLockingWriter() *LockingWriter {
	return &LockingWriter{LockTimeout: DefaultLockTimeout, FileMode: defaultFileMode}
}

// EnsureDirectory creates path and any missing parents.
func (writer *LockingWriter) EnsureDirectory(path string) error {
	if path == "" {
		return ErrPathRequired
	}
	if makeDirError := os.MkdirAll(path, directoryMode); makeDirError != nil {
		return fmt.Errorf("create directory %s: %w", path, makeDirError)
	}
	return nil
}

// WriteFile replaces the file at path with content, creating parent directories first.
// Readers observe either the previous file or the complete new one.
func (writer *LockingWriter) WriteFile(path string, content string) error {
	if path == "" {
		return ErrPathRequired
	}
	directory := filepath.Dir(path)
	if ensureError := writer.EnsureDirectory(directory); ensureError != nil {
		return ensureError
	}

	fileLock, lockError := writer.acquire(path)
	if lockError != nil {
		return lockError
	}
	defer release(fileLock)

	return writeAtomic(path, []byte(content), writer.fileMode())
}

func (writer *LockingWriter) acquire(path string) (*flock.Flock, error) {
	timeout := writer.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	lockPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(lockFileFormat, filepath.Base(path)))
	fileLock := flock.New(lockPath)
	locked, lockError := fileLock.TryLockContext(ctx, lockPollInterval)
	if lockError != nil {
		if errors.Is(lockError, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", path, ErrLockTimeout)
		}
		return nil, fmt.Errorf("acquire lock for %s: %w", path, lockError)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", path, ErrLockTimeout)
	}
	return fileLock, nil
}

// release unlocks and removes the lock file.
func release(fileLock *flock.Flock) {
	_ = fileLock.Unlock()
	_ = os.Remove(fileLock.Path())
}

func (writer *LockingWriter) fileMode() os.FileMode {
	if writer.FileMode == 0 {
		return defaultFileMode
	}
	return writer.FileMode
}

// writeAtomic writes data to a temporary file in the target directory and renames it over path.
// On failure the original file, if any, is left unchanged.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	temporaryFile, createError := os.CreateTemp(filepath.Dir(path), temporaryPattern)
	if createError != nil {
		return fmt.Errorf("create temporary file for %s: %w", path, createError)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(data); writeError != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf("write %s: %w", path, writeError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf("close %s: %w", path, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, mode); chmodError != nil {
		return fmt.Errorf("chmod %s: %w", path, chmodError)
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		return fmt.Errorf("rename into %s: %w", path, renameError)
	}
	committed = true
	return nil
}

var _ Writer = (*LockingWriter)(nil)
