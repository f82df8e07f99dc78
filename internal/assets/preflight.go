package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shirou/gopsutil/v4/disk"
)

// SpaceChecker verifies that need bytes fit on the filesystem that will
// hold path. path itself does not have to exist yet.
type SpaceChecker func(ctx context.Context, path string, need uint64) error

// CheckDiskSpace is the SpaceChecker backed by gopsutil.
func CheckDiskSpace(ctx context.Context, path string, need uint64) error {
	dir, err := existingAncestor(path)
	if err != nil {
		return err
	}

	usage, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		return goerr.Wrap(err, "failed to query disk usage", goerr.V("path", dir))
	}

	if usage.Free < need {
		return goerr.Wrap(ErrInsufficientSpace, "not enough free space to extract archive",
			goerr.V("path", dir),
			goerr.V("need", need),
			goerr.V("free", usage.Free),
		)
	}
	return nil
}

// existingAncestor walks up from path to the first directory that exists.
func existingAncestor(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve path", goerr.V("path", path))
	}

	for {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", goerr.Wrap(err, "failed to stat path", goerr.V("path", dir))
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", goerr.New("no existing ancestor directory", goerr.V("path", path))
		}
		dir = parent
	}
}
