package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ZebulonRouseFrantzich/assetfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/assetfetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/assetfetch/internal/transaction"
)

// Fetcher ensures the asset directory is populated.
type Fetcher struct {
	cfg        *config.Config
	workDir    string
	retriever  Retriever
	extractor  *Extractor
	checkSpace SpaceChecker
	out        io.Writer
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithWorkDir sets the directory holding the archive file and against which
// a relative target directory is resolved. Defaults to ".".
func WithWorkDir(dir string) Option {
	return func(f *Fetcher) { f.workDir = dir }
}

// WithRetriever replaces the HTTP downloader.
func WithRetriever(r Retriever) Option {
	return func(f *Fetcher) { f.retriever = r }
}

// WithSpaceChecker replaces the gopsutil free-space check.
func WithSpaceChecker(c SpaceChecker) Option {
	return func(f *Fetcher) { f.checkSpace = c }
}

// WithOutput sets where the listing and progress lines are printed.
// Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(f *Fetcher) { f.out = w }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a fetcher for cfg.
func NewFetcher(cfg *config.Config, opts ...Option) (*Fetcher, error) {
	if cfg == nil {
		return nil, goerr.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid config")
	}

	f := &Fetcher{
		cfg:        cfg,
		workDir:    ".",
		retriever:  NewDownloader(cfg.Timeout, cfg.UserAgent),
		extractor:  NewExtractor(),
		checkSpace: CheckDiskSpace,
		out:        os.Stdout,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// TargetDir returns the resolved target directory.
func (f *Fetcher) TargetDir() string {
	if filepath.IsAbs(f.cfg.TargetDir) {
		return f.cfg.TargetDir
	}
	return filepath.Join(f.workDir, f.cfg.TargetDir)
}

// ArchivePath returns where the downloaded archive is stored.
func (f *Fetcher) ArchivePath() string {
	return filepath.Join(f.workDir, f.cfg.ArchiveName)
}

// State reports whether anything exists at the target path.
func (f *Fetcher) State() (State, error) {
	_, err := os.Stat(f.TargetDir())
	if err == nil {
		return StateFetched, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return StateNotFetched, nil
	}
	return StateNotFetched, goerr.Wrap(err, "failed to check target directory", goerr.V("path", f.TargetDir()))
}

// Ensure fetches and extracts the archive unless the target directory
// already exists. In that case it returns a skipped Result without touching
// the network or the filesystem.
func (f *Fetcher) Ensure(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	target := f.TargetDir()

	state, err := f.State()
	if err != nil {
		return nil, err
	}
	if state == StateFetched {
		f.logger.Debug("target directory exists, skipping fetch", slog.String("target", target))
		return &Result{State: StateFetched, Skipped: true, TargetDir: target}, nil
	}

	lock, err := transaction.AcquireLock(ctx, f.workDir, f.cfg.ArchiveName+".lock")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to lock archive")
	}
	defer func() {
		if err := lock.Release(); err != nil {
			f.logger.Warn("failed to release lock", slog.Any("error", err))
		}
	}()

	// Another run may have finished while we waited for the lock.
	if state, err = f.State(); err != nil {
		return nil, err
	} else if state == StateFetched {
		return &Result{State: StateFetched, Skipped: true, TargetDir: target}, nil
	}

	archivePath := f.ArchivePath()
	f.logger.Info("downloading assets",
		slog.String("url", f.cfg.SourceURL),
		slog.String("archive", archivePath),
	)
	if err := f.retriever.Retrieve(ctx, f.cfg.SourceURL, archivePath); err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve archive", goerr.V("url", f.cfg.SourceURL))
	}

	entries, err := f.extractor.List(archivePath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read archive")
	}
	if err := PrintListing(f.out, entries); err != nil {
		return nil, goerr.Wrap(err, "failed to print archive listing")
	}

	var totalSize uint64
	for _, e := range entries {
		totalSize += e.Size
	}
	if err := f.checkSpace(ctx, target, totalSize); err != nil {
		return nil, goerr.Wrap(err, "pre-flight check failed")
	}

	fmt.Fprintln(f.out, "Extracting all the files now...")
	files, err := f.extractor.ExtractZip(archivePath, target)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract archive", goerr.V("target", target))
	}
	fmt.Fprintln(f.out, "Done!")

	if !f.cfg.KeepArchive {
		if err := os.Remove(archivePath); err != nil {
			f.logger.Warn("failed to remove archive", slog.String("path", archivePath), slog.Any("error", err))
		}
	}

	return &Result{
		State:       StateFetched,
		TargetDir:   target,
		ArchivePath: archivePath,
		Entries:     entries,
		Files:       files,
		TotalSize:   totalSize,
		Elapsed:     time.Since(startTime),
	}, nil
}
