package assets

import (
	"errors"
	"time"
)

// State is the fetch state of the target directory.
type State int

const (
	// StateNotFetched means the target directory does not exist.
	StateNotFetched State = iota
	// StateFetched means something exists at the target path.
	StateFetched
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateNotFetched:
		return "NOT_FETCHED"
	case StateFetched:
		return "FETCHED"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrUnexpectedStatus is returned when the server answers outside 2xx.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrIllegalPath is returned for archive entries that resolve outside the target directory.
	ErrIllegalPath = errors.New("illegal file path in archive")
	// ErrInsufficientSpace is returned when the extracted size exceeds free disk space.
	ErrInsufficientSpace = errors.New("insufficient disk space")
	// ErrUnsupportedScheme is returned for source URLs the downloader cannot fetch.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

// Entry describes one member of a ZIP archive.
type Entry struct {
	// Name is the entry name as stored in the archive and printed in the listing.
	Name string
	// Path is Name cleaned to the slash-separated path it is extracted to.
	Path string

	Size           uint64 // uncompressed
	CompressedSize uint64
	Modified       time.Time
	IsDir          bool
}

// Result describes the outcome of Fetcher.Ensure.
type Result struct {
	State State
	// Skipped is true when the target directory already existed and
	// nothing was done.
	Skipped     bool
	TargetDir   string
	ArchivePath string
	// Entries is the archive listing, in archive order.
	Entries []Entry
	// Files holds the slash-separated paths written under TargetDir. They
	// match the Path of the non-directory entries, not necessarily the raw
	// Name shown in the listing.
	Files     []string
	TotalSize uint64
	Elapsed   time.Duration
}
