// Package config loads the assetfetch configuration.
//
// Every setting has a default; without a config file the hosted asset
// bundle is fetched into ./assets via ./assets.zip. A Lua file can override
// any of them:
//
//	assets = {
//	    target_dir   = "./assets",
//	    source_url   = platform.when(platform.is_arm64, "https://example.com/assets-arm64.zip")
//	                   or "https://example.com/assets.zip",
//	    archive_name = "assets.zip",
//	    keep_archive = true,
//	    timeout      = 300, -- seconds, 0 disables the HTTP timeout
//	    user_agent   = "assetfetch/1.0",
//	}
//
// The file runs in a sandboxed gopher-lua VM: os, io, debug, package, the
// module loading functions and rawset/rawget are removed. A read-only platform table (see package
// platform) is available so a single file can pick per-host URLs.
package config
