package assets

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const listingTimeFormat = "2006-01-02 15:04:05"

var listingHeader = color.New(color.Bold)

// PrintListing writes a directory listing of entries: name, modification
// time and uncompressed size, one entry per line under a header.
func PrintListing(w io.Writer, entries []Entry) error {
	if _, err := listingHeader.Fprintf(w, "%-46s %19s %12s\n", "File Name", "Modified    ", "Size"); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%-46s %s %12d\n", e.Name, e.Modified.Format(listingTimeFormat), e.Size); err != nil {
			return err
		}
	}
	return nil
}
