package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/assetfetch/internal/platform"
)

// Parser evaluates Lua config files with the platform table injected.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser. A nil detector skips platform
// injection, leaving the platform global undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// Load reads the config file at path. When path is empty the default file
// is tried and its absence yields Default(); an explicit path must exist.
func (p *Parser) Load(ctx context.Context, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	cfg, err := p.ParseString(ctx, string(data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return cfg, nil
}

// ParseString evaluates luaCode and overlays the assets table onto Default().
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "platform detection failed")
		}
		platform.InjectPlatformTable(L, info)
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global assets table. A missing table is allowed
// and means "all defaults"; a present one of the wrong type is not.
func extractConfig(L *lua.LState) (*Config, error) {
	cfg := Default()

	global := L.GetGlobal(luaGlobalAssets)
	switch global.Type() {
	case lua.LTNil:
		return cfg, nil
	case lua.LTTable:
	default:
		return nil, &ParseError{
			Message: "invalid 'assets' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}
	table := global.(*lua.LTable)

	var err error
	if cfg.TargetDir, err = stringField(table, luaFieldTargetDir, cfg.TargetDir); err != nil {
		return nil, err
	}
	if cfg.SourceURL, err = stringField(table, luaFieldSourceURL, cfg.SourceURL); err != nil {
		return nil, err
	}
	if cfg.ArchiveName, err = stringField(table, luaFieldArchive, cfg.ArchiveName); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = stringField(table, luaFieldUserAgent, cfg.UserAgent); err != nil {
		return nil, err
	}

	switch v := table.RawGetString(luaFieldKeep); v.Type() {
	case lua.LTNil:
	case lua.LTBool:
		cfg.KeepArchive = bool(v.(lua.LBool))
	default:
		return nil, fieldTypeError(luaFieldKeep, "boolean", v)
	}

	switch v := table.RawGetString(luaFieldTimeout); v.Type() {
	case lua.LTNil:
	case lua.LTNumber:
		cfg.Timeout = time.Duration(float64(lua.LVAsNumber(v)) * float64(time.Second))
	default:
		return nil, fieldTypeError(luaFieldTimeout, "number", v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return cfg, nil
}

// stringField returns the string at key, or fallback when the key is nil
// (unset, or the result of a false platform.when).
func stringField(table *lua.LTable, key, fallback string) (string, error) {
	v := table.RawGetString(key)
	switch v.Type() {
	case lua.LTNil:
		return fallback, nil
	case lua.LTString:
		return v.String(), nil
	default:
		return "", fieldTypeError(key, "string", v)
	}
}

func fieldTypeError(key, want string, got lua.LValue) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("invalid value for assets.%s", key),
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
