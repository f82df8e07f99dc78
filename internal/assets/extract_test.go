package assets

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestExtractor_List(t *testing.T) {
	archive := writeZip(t, t.TempDir(), "assets.zip",
		zipEntry{name: "foo.png", content: "0123456789"},
		zipEntry{name: "bar/"},
		zipEntry{name: "bar/baz.json", content: `{"x":1}`},
	)

	entries, err := NewExtractor().List(archive)
	gt.NoError(t, err)
	gt.Equal(t, len(entries), 3)

	gt.Equal(t, entries[0].Name, "foo.png")
	gt.Equal(t, entries[0].Size, uint64(10))
	gt.True(t, !entries[0].IsDir)
	gt.True(t, entries[0].Modified.Equal(testModTime))

	gt.Equal(t, entries[1].Name, "bar/")
	gt.True(t, entries[1].IsDir)

	gt.Equal(t, entries[2].Name, "bar/baz.json")
	gt.Equal(t, entries[2].Size, uint64(7))
}

func TestExtractor_ExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := writeZip(t, dir, "assets.zip",
		zipEntry{name: "a.txt", content: "alpha"},
		zipEntry{name: "b/"},
		zipEntry{name: "b/c.txt", content: "charlie"},
		zipEntry{name: "deep/er/d.txt", content: "delta"},
	)
	target := filepath.Join(dir, "assets")

	files, err := NewExtractor().ExtractZip(archive, target)
	gt.NoError(t, err)
	gt.Equal(t, files, []string{"a.txt", "b/c.txt", "deep/er/d.txt"})
	gt.Equal(t, walkFiles(t, target), files)

	content, err := os.ReadFile(filepath.Join(target, "b", "c.txt"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "charlie")

	info, err := os.Stat(target)
	gt.NoError(t, err)
	gt.Equal(t, info.Mode().Perm(), os.FileMode(0755))

	// Only the archive and the target remain; no staging directory.
	left, err := os.ReadDir(dir)
	gt.NoError(t, err)
	gt.Equal(t, len(left), 2)
}

func TestExtractor_ExtractZip_EmptyArchive(t *testing.T) {
	dir := t.TempDir()
	archive := writeZip(t, dir, "empty.zip")
	target := filepath.Join(dir, "assets")

	files, err := NewExtractor().ExtractZip(archive, target)
	gt.NoError(t, err)
	gt.Equal(t, len(files), 0)

	info, err := os.Stat(target)
	gt.NoError(t, err)
	gt.True(t, info.IsDir())
}

func TestExtractor_ExtractZip_CreatesParents(t *testing.T) {
	dir := t.TempDir()
	archive := writeZip(t, dir, "assets.zip", zipEntry{name: "a.txt", content: "alpha"})
	target := filepath.Join(dir, "data", "game", "assets")

	_, err := NewExtractor().ExtractZip(archive, target)
	gt.NoError(t, err)

	_, err = os.Stat(filepath.Join(target, "a.txt"))
	gt.NoError(t, err)
}

func TestExtractor_ExtractZip_IllegalPath(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"parent escape", "../evil.txt"},
		{"nested escape", "a/../../evil.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			work := filepath.Join(dir, "work")
			gt.NoError(t, os.Mkdir(work, 0755))

			archive := writeZip(t, work, "assets.zip",
				zipEntry{name: "ok.txt", content: "fine"},
				zipEntry{name: tt.entry, content: "gotcha"},
			)
			target := filepath.Join(work, "assets")

			_, err := NewExtractor().ExtractZip(archive, target)
			gt.Error(t, err)
			gt.True(t, errors.Is(err, ErrIllegalPath) || errors.Is(err, zip.ErrInsecurePath))

			_, statErr := os.Stat(target)
			gt.True(t, errors.Is(statErr, os.ErrNotExist))
			_, statErr = os.Stat(filepath.Join(dir, "evil.txt"))
			gt.True(t, errors.Is(statErr, os.ErrNotExist))

			left, err := os.ReadDir(work)
			gt.NoError(t, err)
			gt.Equal(t, len(left), 1)
		})
	}
}

func TestExtractor_ExtractZip_CorruptArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "assets.zip")
	gt.NoError(t, os.WriteFile(archive, []byte("<html>not a zip</html>"), 0644))
	target := filepath.Join(dir, "assets")

	_, err := NewExtractor().ExtractZip(archive, target)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, zip.ErrFormat))

	_, statErr := os.Stat(target)
	gt.True(t, errors.Is(statErr, os.ErrNotExist))

	_, err = NewExtractor().List(archive)
	gt.True(t, errors.Is(err, zip.ErrFormat))
}

func TestExtractor_ExtractZip_EntryModes(t *testing.T) {
	dir := t.TempDir()
	archive := writeZip(t, dir, "assets.zip",
		zipEntry{name: "foo.png", content: "0123456789", mode: 0644},
		zipEntry{name: "link.png", content: "foo.png", mode: os.ModeSymlink | 0777},
		zipEntry{name: "run.sh", content: "#!/bin/sh\n", mode: 0755},
	)
	target := filepath.Join(dir, "assets")

	_, err := NewExtractor().ExtractZip(archive, target)
	gt.NoError(t, err)

	info, err := os.Lstat(filepath.Join(target, "link.png"))
	gt.NoError(t, err)
	gt.True(t, info.Mode().IsRegular())
	gt.Equal(t, info.Mode().Perm(), os.FileMode(0644))

	content, err := os.ReadFile(filepath.Join(target, "link.png"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "foo.png")

	info, err = os.Stat(filepath.Join(target, "run.sh"))
	gt.NoError(t, err)
	gt.Equal(t, info.Mode().Perm(), os.FileMode(0755))
}

func TestExtractor_UncleanEntryNames(t *testing.T) {
	dir := t.TempDir()
	archive := writeZip(t, dir, "assets.zip",
		zipEntry{name: "./a.txt", content: "alpha"},
		zipEntry{name: "b//c.txt", content: "charlie"},
	)

	entries, err := NewExtractor().List(archive)
	gt.NoError(t, err)
	gt.Equal(t, entries[0].Name, "./a.txt")
	gt.Equal(t, entries[0].Path, "a.txt")
	gt.Equal(t, entries[1].Name, "b//c.txt")
	gt.Equal(t, entries[1].Path, "b/c.txt")

	files, err := NewExtractor().ExtractZip(archive, filepath.Join(dir, "assets"))
	gt.NoError(t, err)
	gt.Equal(t, files, []string{entries[0].Path, entries[1].Path})
}

func TestExtractor_InsecurePathRejectedByReader(t *testing.T) {
	t.Setenv("GODEBUG", "zipinsecurepath=0")

	dir := t.TempDir()
	archive := writeZip(t, dir, "assets.zip", zipEntry{name: "../evil.txt", content: "gotcha"})
	target := filepath.Join(dir, "assets")

	_, err := NewExtractor().ExtractZip(archive, target)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, zip.ErrInsecurePath) || errors.Is(err, ErrIllegalPath))

	_, statErr := os.Stat(target)
	gt.True(t, errors.Is(statErr, os.ErrNotExist))
	gt.NoError(t, os.Remove(archive))
}

func TestEntryPath(t *testing.T) {
	tests := map[string]string{
		"a.txt":        "a.txt",
		"./a.txt":      "a.txt",
		"b//c.txt":     "b/c.txt",
		"b/":           "b",
		"b/./c/../d":   "b/d",
		"/abs/file.go": "abs/file.go",
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			gt.Equal(t, entryPath(name), want)
		})
	}
}

func TestSafeJoin(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")

	got, err := safeJoin(root, "a/b.txt")
	gt.NoError(t, err)
	gt.Equal(t, got, filepath.Join(root, "a", "b.txt"))

	got, err = safeJoin(root, "a/../b.txt")
	gt.NoError(t, err)
	gt.Equal(t, got, filepath.Join(root, "b.txt"))

	_, err = safeJoin(root, "../root-sibling/x")
	gt.True(t, errors.Is(err, ErrIllegalPath))
}
