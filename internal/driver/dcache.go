package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"mica/internal/mir"
	"mica/internal/project"
)

// Increment when the DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores per-module build artifacts keyed by source digest.
// Safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached result of compiling one module.
type DiskPayload struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	// Module path as declared in the source ("pipeline.demo").
	Module string

	// SourceHash is the digest of the module's source file.
	SourceHash project.Digest

	// Dump is the deterministic textual IR of the module.
	Dump string

	// PureFuncs maps function names to their purity verdicts.
	PureFuncs map[string]bool
}

// OpenDiskCache initializes a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes a disk cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// A "mods" subdirectory keeps the root readable and easy to clear.
	return filepath.Join(c.dir, "mods", hexKey+".mp")
}

// Put serializes a payload and replaces any previous entry atomically.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. The boolean is false on a miss or a schema change.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// storeArtifacts caches the dump and purity verdicts of each built module.
// MIR modules, purity reports and file IDs share the same index order.
func storeArtifacts(cache *DiskCache, b *Build) error {
	if len(b.MIR) != len(b.Modules) {
		return fmt.Errorf("driver: %d modules built from %d sources", len(b.MIR), len(b.Modules))
	}
	for i, m := range b.MIR {
		file := b.FileSet.Get(b.Modules[i].Span.File)
		pure := make(map[string]bool, len(b.Purity[i].Funcs))
		for _, fn := range b.Purity[i].Funcs {
			pure[fn.Name] = fn.Pure
		}
		payload := &DiskPayload{
			Schema:     diskCacheSchemaVersion,
			Module:     m.Path,
			SourceHash: project.Digest(file.Hash),
			Dump:       mir.DumpModule(m),
			PureFuncs:  pure,
		}
		if err := cache.Put(project.Digest(file.Hash), payload); err != nil {
			return err
		}
	}
	return nil
}
