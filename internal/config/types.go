package config

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultTargetDir is where the archive is extracted.
	DefaultTargetDir = "./assets"
	// DefaultSourceURL is the hosted asset bundle.
	DefaultSourceURL = "https://www.dropbox.com/sh/exjr53qaz7q0c7q/AACzxZMA8oRpDpX0q2u0PfAma?dl=1"
	// DefaultArchiveName is the file the archive is saved as in the working directory.
	DefaultArchiveName = "assets.zip"
	// DefaultTimeout bounds the wait for response headers. The body is not limited.
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "assetfetch/1.0"
	// DefaultFile is the config file looked up in the working directory.
	DefaultFile = ".assetfetch.lua"
)

var (
	ErrEmptyTargetDir     = errors.New("target_dir must not be empty")
	ErrEmptySourceURL     = errors.New("source_url must not be empty")
	ErrUnsupportedScheme  = errors.New("source_url scheme must be http, https or file")
	ErrInvalidArchiveName = errors.New("archive_name must be a plain file name")
	ErrNegativeTimeout    = errors.New("timeout must not be negative")
)

// Config holds everything the asset fetcher needs to know.
type Config struct {
	// TargetDir is the directory whose existence marks the assets as fetched.
	TargetDir string
	// SourceURL serves the ZIP archive (http, https or file).
	SourceURL string
	// ArchiveName is the file name the download is saved as.
	ArchiveName string
	// KeepArchive leaves the downloaded archive in place after extraction.
	KeepArchive bool
	// Timeout bounds the wait for response headers; zero means no timeout.
	Timeout time.Duration
	// UserAgent sent with HTTP requests.
	UserAgent string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TargetDir:   DefaultTargetDir,
		SourceURL:   DefaultSourceURL,
		ArchiveName: DefaultArchiveName,
		KeepArchive: true,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
	}
}

// Validate checks the config for values the fetcher cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TargetDir) == "" {
		return ErrEmptyTargetDir
	}

	if strings.TrimSpace(c.SourceURL) == "" {
		return ErrEmptySourceURL
	}
	u, err := url.Parse(c.SourceURL)
	if err != nil {
		return goerr.Wrap(err, "invalid source_url", goerr.V("source_url", c.SourceURL))
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return goerr.Wrap(ErrUnsupportedScheme, "invalid source_url", goerr.V("scheme", u.Scheme))
	}

	name := c.ArchiveName
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return goerr.Wrap(ErrInvalidArchiveName, "invalid archive_name", goerr.V("archive_name", name))
	}

	if c.Timeout < 0 {
		return ErrNegativeTimeout
	}

	return nil
}
