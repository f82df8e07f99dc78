package assets

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

type zipEntry struct {
	name    string
	content string
	mode    os.FileMode
}

var testModTime = time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

// buildZip returns an in-memory archive holding entries in order. Names
// ending in "/" become directory entries.
func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: testModTime,
		}
		if e.mode != 0 {
			hdr.SetMode(e.mode)
		}
		w, err := zw.CreateHeader(hdr)
		gt.NoError(t, err)
		_, err = w.Write([]byte(e.content))
		gt.NoError(t, err)
	}
	gt.NoError(t, zw.Close())

	return buf.Bytes()
}

// writeZip writes an archive built from entries into dir and returns its path.
func writeZip(t *testing.T, dir, name string, entries ...zipEntry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, buildZip(t, entries...), 0644))
	return path
}

// walkFiles returns the slash-separated paths of all regular files under root.
func walkFiles(t *testing.T, root string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	gt.NoError(t, err)
	return files
}
