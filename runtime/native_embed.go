// Package runtimeembed provides the embedded C runtime that generated
// assembly links against.
package runtimeembed

import (
	"embed"
	"io/fs"
)

//go:embed native/*.c
var nativeRuntimeFS embed.FS

// NativeRuntimeFS exposes the embedded runtime sources so a build driver can
// write them next to the emitted assembly before invoking the system linker.
func NativeRuntimeFS() fs.FS {
	return nativeRuntimeFS
}
