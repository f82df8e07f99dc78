// Package assets makes sure the asset bundle is present on disk.
//
// The only state is whether the target directory exists. If it does,
// nothing happens. If it does not, the ZIP archive is retrieved into the
// working directory, its listing is printed, and every entry is extracted
// into the target directory.
//
// # Hardening
//
//   - Entry paths must stay inside the target directory; an archive that
//     tries to escape it fails with ErrIllegalPath.
//   - Extraction writes into a sibling staging directory that is renamed
//     onto the target only once every entry is written. A failed run leaves
//     no target directory behind.
//
// The archive itself is not verified, and a failed download is not retried.
//
// # Architecture
//
//   - Fetcher: the existence check and the whole fetch sequence
//   - Retriever / Downloader: getting the archive onto disk (http, https, file)
//   - Extractor: listing and extracting ZIP archives
//   - SpaceChecker: free-space pre-flight before extraction
package assets
