// Package resolve implements dependency resolution for the rewrite
// pipeline: an identity-caching module loader over a reference graph that
// may contain self-references, plus the canonical core-library importer.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/reweave/reweave/internal/core/domain"
	"github.com/reweave/reweave/internal/core/ports"
	"github.com/reweave/reweave/internal/metadata"
)

var _ metadata.ReferenceResolver = (*Resolver)(nil)

// Resolver loads referenced modules on demand, caching each by
// (path, mtime) so repeated resolutions within one run return the same
// instance. State is private to one pipeline invocation; a new unit gets
// a new Resolver.
type Resolver struct {
	locator ports.ReferenceLocator
	reader  ports.FileReader
	cache   *Cache

	selfName string
	self     *metadata.Module
}

// NewResolver creates a Resolver over the given locator and reader.
func NewResolver(locator ports.ReferenceLocator, reader ports.FileReader) *Resolver {
	return &Resolver{
		locator: locator,
		reader:  reader,
		cache:   NewCache(),
	}
}

// RegisterSelf registers the module under processing under its own
// declared name, before any dependency resolution begins. Self-references
// then resolve to the in-progress module instead of re-entering the file
// loader for an output that does not exist yet.
func (r *Resolver) RegisterSelf(name string, m *metadata.Module) {
	r.selfName = name
	r.self = m
}

// Resolve returns the fully parsed module for a dependency name, or nil
// when the dependency cannot be located. Locate misses are not errors at
// this layer; a located file that cannot be read or parsed is.
func (r *Resolver) Resolve(name string) (*metadata.Module, error) {
	if r.self != nil && name == r.selfName {
		return r.self, nil
	}

	path, ok := r.locator.FindFile(name)
	if !ok {
		return nil, nil
	}

	key, err := cacheKey(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrReadFailed.Error()), "path", path)
	}
	if m, ok := r.cache.Get(key); ok {
		return m, nil
	}

	data, err := r.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m, err := metadata.Parse(data, metadata.ParseOptions{
		Symbols:  r.readSymbols(path),
		Resolver: r,
	})
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	r.cache.Put(key, m)
	return m, nil
}

// CacheLen returns the number of dependency modules loaded so far.
func (r *Resolver) CacheLen() int {
	return r.cache.Len()
}

// readSymbols loads the companion debug-symbol file next to a module, if
// one exists. Symbol files are optional; absence and read failures both
// yield no symbols.
func (r *Resolver) readSymbols(path string) []byte {
	symPath := strings.TrimSuffix(path, filepath.Ext(path)) + domain.SymbolExt
	if _, err := os.Stat(symPath); err != nil {
		return nil
	}
	data, err := r.reader.ReadFile(symPath)
	if err != nil {
		return nil
	}
	return data
}

// cacheKey builds the (path, mtime) identity of a dependency file.
func cacheKey(path string) (Key, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Key{}, err
	}
	return Key{
		Path:  filepath.Clean(path),
		MTime: info.ModTime().UnixNano(),
	}, nil
}
