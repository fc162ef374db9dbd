// Package metadata provides the in-memory object model and binary codec for
// compiled modules. The rewrite pipeline is built on top of this layer; it
// parses a module together with its debug symbols, exposes types, methods
// and instructions for in-place transformation, and re-serializes both.
package metadata

import (
	"go.trai.ch/zerr"

	"github.com/reweave/reweave/internal/core/domain"
)

// ReferenceResolver resolves a referenced module name to its fully parsed
// module. It returns nil with a nil error when the dependency cannot be
// located; some references are optional at parse time.
type ReferenceResolver interface {
	Resolve(name string) (*Module, error)
}

// ImporterFunc intercepts requests to import a reference into a module.
// It may substitute an already-declared reference instead of minting a new
// one. A nil ImporterFunc means default import behavior.
type ImporterFunc func(m *Module, name, version string) (*Reference, error)

// Reference is an entry in a module's reference table.
type Reference struct {
	Name    string
	Version string

	resolved *Module
}

// Instruction is one IL instruction in a method body.
type Instruction struct {
	Op      string
	Operand string
}

// MethodDef is a method with its instruction stream.
type MethodDef struct {
	Name string
	Body []Instruction
}

// TypeDef is a named type with its methods.
type TypeDef struct {
	Name    string
	Methods []*MethodDef
}

// Module is the parsed, mutable in-memory form of a compiled unit.
type Module struct {
	name    string
	version string
	refs    []*Reference
	types   []*TypeDef
	symbols *SymbolFile

	resolver ReferenceResolver
	importer ImporterFunc
	closed   bool
}

// New creates an empty module with the given declared name.
func New(name string) *Module {
	return &Module{name: name}
}

// Name returns the module's declared name.
func (m *Module) Name() string { return m.name }

// References returns the module's reference table.
func (m *Module) References() []*Reference { return m.refs }

// Types returns the module's type definitions.
func (m *Module) Types() []*TypeDef { return m.types }

// Symbols returns the module's debug symbols, or nil if none were loaded.
func (m *Module) Symbols() *SymbolFile { return m.symbols }

// SetSymbols attaches debug symbols to the module.
func (m *Module) SetSymbols(s *SymbolFile) { m.symbols = s }

// SetResolver installs the resolver used to link transitive references.
func (m *Module) SetResolver(r ReferenceResolver) { m.resolver = r }

// SetImporter installs the reference-import interceptor.
func (m *Module) SetImporter(f ImporterFunc) { m.importer = f }

// AddType appends a type definition to the module.
func (m *Module) AddType(t *TypeDef) { m.types = append(m.types, t) }

// AddReference appends a reference to the module's reference table without
// going through the importer. Used when constructing modules directly.
func (m *Module) AddReference(name, version string) *Reference {
	ref := &Reference{Name: name, Version: version}
	m.refs = append(m.refs, ref)
	return ref
}

// FindReference returns the declared reference with the given name, if any.
func (m *Module) FindReference(name string) (*Reference, bool) {
	for _, ref := range m.refs {
		if ref.Name == name {
			return ref, true
		}
	}
	return nil, false
}

// ImportReference returns a reference to the named external module, adding
// it to the reference table if needed. An installed importer may redirect
// the request onto an already-declared reference.
func (m *Module) ImportReference(name, version string) (*Reference, error) {
	if m.closed {
		return nil, domain.ErrModuleClosed
	}
	if m.importer != nil {
		return m.importer(m, name, version)
	}
	return m.DefaultImport(name, version)
}

// DefaultImport is the import behavior without interception: reuse the
// declared reference with the same name, or append a new one.
func (m *Module) DefaultImport(name, version string) (*Reference, error) {
	if m.closed {
		return nil, domain.ErrModuleClosed
	}
	if ref, ok := m.FindReference(name); ok {
		return ref, nil
	}
	return m.AddReference(name, version), nil
}

// ResolveReference links a reference to its module, consulting the
// installed resolver on first use and memoizing the result. The resolver's
// identity-stability guarantees that repeated resolutions of the same
// dependency yield the same *Module.
func (m *Module) ResolveReference(ref *Reference) (*Module, error) {
	if m.closed {
		return nil, domain.ErrModuleClosed
	}
	if ref.resolved != nil {
		return ref.resolved, nil
	}
	if m.resolver == nil {
		return nil, zerr.With(domain.ErrReferenceNotFound, "name", ref.Name)
	}
	dep, err := m.resolver.Resolve(ref.Name)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, zerr.With(domain.ErrReferenceNotFound, "name", ref.Name)
	}
	ref.resolved = dep
	return dep, nil
}

// Write serializes the module and its debug symbols. The symbol bytes are
// nil when the module carries no symbols.
func (m *Module) Write() (binary []byte, symbols []byte, err error) {
	if m.closed {
		return nil, nil, domain.ErrModuleClosed
	}
	binary, err = encodeModule(m)
	if err != nil {
		return nil, nil, err
	}
	if m.symbols != nil {
		symbols, err = EncodeSymbols(m.symbols)
		if err != nil {
			return nil, nil, err
		}
	}
	return binary, symbols, nil
}

// Close releases the module's parser-level resources. The module must not
// be used afterwards; operations on a closed module fail with
// domain.ErrModuleClosed. Close is idempotent.
func (m *Module) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	for _, ref := range m.refs {
		ref.resolved = nil
	}
	m.resolver = nil
	m.importer = nil
	return nil
}
