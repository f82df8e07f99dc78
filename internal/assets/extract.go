package assets

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Extractor handles ZIP archive listing and extraction
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// List returns the entries of the archive in archive order.
func (e *Extractor) List(archivePath string) ([]Entry, error) {
	r, err := openArchive(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, Entry{
			Name:           f.Name,
			Path:           entryPath(f.Name),
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Modified:       f.Modified,
			IsDir:          f.FileInfo().IsDir(),
		})
	}
	return entries, nil
}

// openArchive opens a ZIP file. With GODEBUG=zipinsecurepath=0 the reader
// comes back alongside ErrInsecurePath and is closed here.
func openArchive(archivePath string) (*zip.ReadCloser, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		if r != nil {
			r.Close()
		}
		return nil, goerr.Wrap(err, "failed to open archive", goerr.V("path", archivePath))
	}
	return r, nil
}

// entryPath is the slash-separated path an entry is extracted to, relative
// to the target directory: "./a.txt" becomes "a.txt", "b//c/" becomes "b/c".
func entryPath(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// ExtractZip extracts every entry of the archive into destDir and returns
// the slash-separated relative paths of the files written.
//
// Entries are written into a staging directory next to destDir which is
// renamed onto destDir at the end; on any error the staging directory is
// removed and destDir is left untouched.
func (e *Extractor) ExtractZip(archivePath, destDir string) ([]string, error) {
	r, err := openArchive(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	destDir = filepath.Clean(destDir)
	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create parent directory", goerr.V("path", parent))
	}

	stage, err := os.MkdirTemp(parent, "."+filepath.Base(destDir)+".partial-")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create staging directory", goerr.V("parent", parent))
	}

	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(stage)
		}
	}()

	var files []string
	for _, f := range r.File {
		rel, err := extractFile(f, stage)
		if err != nil {
			return nil, err
		}
		if rel != "" {
			files = append(files, rel)
		}
	}

	// MkdirTemp creates 0700; the target is an ordinary shared directory.
	if err := os.Chmod(stage, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to set staging directory permissions", goerr.V("path", stage))
	}

	if err := os.Rename(stage, destDir); err != nil {
		return nil, goerr.Wrap(err, "failed to move extracted files into place",
			goerr.V("staging", stage),
			goerr.V("target", destDir),
		)
	}
	committed = true

	return files, nil
}

// extractFile writes one entry under root. It returns the entry's relative
// path for regular files and "" for directories.
func extractFile(f *zip.File, root string) (string, error) {
	target, err := safeJoin(root, f.Name)
	if err != nil {
		return "", err
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0755); err != nil {
			return "", goerr.Wrap(err, "failed to create directory", goerr.V("entry", f.Name))
		}
		return "", nil
	}

	if target == root {
		return "", goerr.Wrap(ErrIllegalPath, "file entry resolves to the target directory itself", goerr.V("entry", f.Name))
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", goerr.Wrap(err, "failed to create parent directory", goerr.V("entry", f.Name))
	}

	rc, err := f.Open()
	if err != nil {
		return "", goerr.Wrap(err, "failed to open archive entry", goerr.V("entry", f.Name))
	}
	defer rc.Close()

	// Symlinks and other special entries are written as plain 0644 files
	// holding their content; regular files keep their permission bits.
	perm := os.FileMode(0644)
	if mode := f.Mode(); mode.IsRegular() && mode.Perm() != 0 {
		perm = mode.Perm()
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create file", goerr.V("entry", f.Name))
	}

	if _, err := io.Copy(outFile, rc); err != nil {
		outFile.Close()
		return "", goerr.Wrap(err, "failed to write file", goerr.V("entry", f.Name))
	}

	if err := outFile.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close file", goerr.V("entry", f.Name))
	}

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", goerr.Wrap(err, "failed to compute relative path", goerr.V("entry", f.Name))
	}
	return filepath.ToSlash(rel), nil
}

// safeJoin joins name onto root and rejects results outside root.
func safeJoin(root, name string) (string, error) {
	root = filepath.Clean(root)
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", goerr.Wrap(ErrIllegalPath, "archive entry escapes the target directory", goerr.V("entry", name))
	}
	return target, nil
}
