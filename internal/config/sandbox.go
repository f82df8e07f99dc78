package config

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are removed from every config VM: os/io give process and
// filesystem access, package and the loaders pull in code from outside the
// config file, and debug and the raw accessors bypass metatables.
var blockedGlobals = []string{
	"os",
	"io",
	"debug",
	"package",
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"module",
	"rawset",
	"rawget",
}

// newSandboxedVM creates a Lua VM with only the pure libraries left
// (string, table, math and the basic functions).
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
