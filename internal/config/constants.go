package config

// Lua schema field names and globals
const (
	luaGlobalAssets   = "assets"
	luaFieldTargetDir = "target_dir"
	luaFieldSourceURL = "source_url"
	luaFieldArchive   = "archive_name"
	luaFieldKeep      = "keep_archive"
	luaFieldTimeout   = "timeout"
	luaFieldUserAgent = "user_agent"
)
