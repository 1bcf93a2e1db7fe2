// Package project locates and parses mica.toml manifests.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file that marks a project root.
const ManifestName = "mica.toml"

// PackageSection is the [package] table of a manifest.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Root    string `toml:"root"`
}

// BuildSection is the [build] table of a manifest.
type BuildSection struct {
	Backend        string `toml:"backend"`
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// Manifest is a parsed mica.toml.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Build   BuildSection   `toml:"build"`

	// Dir is the directory the manifest was loaded from.
	Dir string `toml:"-"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Load parses a manifest file and validates its required fields.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if m.Package.Name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if m.Package.Root == "" {
		m.Package.Root = "."
	}
	if m.Build.Backend == "" {
		m.Build.Backend = "text"
	}
	if m.Build.MaxDiagnostics <= 0 {
		m.Build.MaxDiagnostics = 100
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// SourceDir returns the directory holding the package sources.
func (m *Manifest) SourceDir() string {
	if filepath.IsAbs(m.Package.Root) {
		return m.Package.Root
	}
	return filepath.Join(m.Dir, m.Package.Root)
}

// FindManifest walks up from startDir to locate mica.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindRoot returns the directory containing mica.toml, if any.
func FindRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}
