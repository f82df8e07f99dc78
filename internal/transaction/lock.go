// Package transaction guards the fetch against concurrent invocations that
// would otherwise race on the same archive file and target directory.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// StaleLockThreshold is the maximum age of a lock before it's considered stale.
	StaleLockThreshold = 10 * time.Minute
)

var ErrLockExists = errors.New("lock exists: another fetch may be in progress")

// Lock is an exclusive lock file held for the duration of a fetch.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock creates dir/name exclusively. A lock older than
// StaleLockThreshold is assumed to belong to a crashed run and is replaced
// once.
func AcquireLock(ctx context.Context, dir, name string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "lock acquisition cancelled")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create lock directory", goerr.V("dir", dir))
	}

	lockPath := filepath.Join(dir, name)

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, goerr.Wrap(err, "failed to create lock file", goerr.V("path", lockPath))
		}
		if stale, _ := isLockStale(lockPath); !stale {
			return nil, goerr.Wrap(ErrLockExists, "failed to acquire lock", goerr.V("path", lockPath))
		}
		os.Remove(lockPath)
		file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, goerr.Wrap(ErrLockExists, "failed to acquire lock", goerr.V("path", lockPath))
		}
	}

	lockData := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, goerr.Wrap(err, "failed to write lock data", goerr.V("path", lockPath))
	}

	return &Lock{
		path: lockPath,
		file: file,
	}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock. Calling it more than once is safe.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return goerr.Wrap(err, "failed to remove lock file", goerr.V("path", l.path))
		}
		l.path = ""
	}

	return nil
}

func isLockStale(lockPath string) (bool, error) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false, err
	}
	return time.Since(info.ModTime()) > StaleLockThreshold, nil
}
