// Package project handles toy.toml manifests and content digests.
package project

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file a project root is recognized by.
const ManifestName = "toy.toml"

// Digest is a sha256 content hash used for cache keys and invalidation.
type Digest [sha256.Size]byte

func (d Digest) String() string {
	return fmt.Sprintf("%x", d[:])
}

// HashBytes digests raw content.
func HashBytes(content []byte) Digest {
	return sha256.Sum256(content)
}

// Manifest is the parsed toy.toml.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Build   BuildSection   `toml:"build"`
}

// PackageSection names the package.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// BuildSection holds build knobs; all fields are optional.
type BuildSection struct {
	// Entry is the main source file, relative to the manifest directory.
	Entry string `toml:"entry"`
	// Out is the output directory for assembly listings.
	Out string `toml:"out"`
	// Comments enables source position comments in the assembly.
	Comments bool `toml:"comments"`
	// Jobs caps build parallelism; zero means one worker per CPU.
	Jobs int `toml:"jobs"`
}

// Load parses a manifest file.
func Load(path string) (Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Manifest{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if m.Package.Name == "" {
		return Manifest{}, fmt.Errorf("%s: [package] name is required", path)
	}
	return m, nil
}

// Find walks from dir upwards looking for a manifest. Returns the manifest
// path, or an error when no project root exists.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(abs, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no %s found from %s upwards", ManifestName, dir)
		}
		abs = parent
	}
}
