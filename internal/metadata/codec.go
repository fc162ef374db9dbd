package metadata

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/zerr"

	"github.com/reweave/reweave/internal/core/domain"
)

// FormatVersion is the current module format version. Increment when making
// incompatible changes to the payload layout.
const FormatVersion uint16 = 1

// Magic bytes for module files: "RWMD".
var Magic = []byte{'R', 'W', 'M', 'D'}

// headerSize is magic plus the 8-byte xxhash64 body checksum.
const headerSize = 4 + 8

// modulePayload is the msgpack wire form of a module.
type modulePayload struct {
	Schema     uint16             `msgpack:"schema"`
	Name       string             `msgpack:"name"`
	Version    string             `msgpack:"version"`
	References []referencePayload `msgpack:"references"`
	Types      []typePayload      `msgpack:"types"`
}

type referencePayload struct {
	Name    string `msgpack:"name"`
	Version string `msgpack:"version"`
}

type typePayload struct {
	Name    string          `msgpack:"name"`
	Methods []methodPayload `msgpack:"methods"`
}

type methodPayload struct {
	Name string               `msgpack:"name"`
	Body []instructionPayload `msgpack:"body"`
}

type instructionPayload struct {
	Op      string `msgpack:"op"`
	Operand string `msgpack:"operand,omitempty"`
}

// ParseOptions configures Parse.
type ParseOptions struct {
	// Symbols is the companion debug-symbol blob, if present.
	Symbols []byte

	// Resolver links transitive references on demand. May be nil when
	// references will never be resolved (e.g. inspection only).
	Resolver ReferenceResolver
}

// Parse decodes module bytes into a Module. The embedded content checksum
// is verified first; a mismatch indicates a corrupt or truncated file.
func Parse(data []byte, opts ParseOptions) (*Module, error) {
	body, err := verifyEnvelope(data)
	if err != nil {
		return nil, err
	}

	var payload modulePayload
	if err := msgpack.Unmarshal(body, &payload); err != nil {
		return nil, zerr.Wrap(err, domain.ErrParseFailed.Error())
	}
	if payload.Schema != FormatVersion {
		return nil, zerr.With(domain.ErrParseFailed, "schema", payload.Schema)
	}

	m := &Module{
		name:     payload.Name,
		version:  payload.Version,
		resolver: opts.Resolver,
	}
	for _, ref := range payload.References {
		m.refs = append(m.refs, &Reference{Name: ref.Name, Version: ref.Version})
	}
	for _, t := range payload.Types {
		td := &TypeDef{Name: t.Name}
		for _, meth := range t.Methods {
			md := &MethodDef{Name: meth.Name}
			for _, ins := range meth.Body {
				md.Body = append(md.Body, Instruction{Op: ins.Op, Operand: ins.Operand})
			}
			td.Methods = append(td.Methods, md)
		}
		m.types = append(m.types, td)
	}

	if len(opts.Symbols) > 0 {
		symbols, err := DecodeSymbols(opts.Symbols)
		if err != nil {
			return nil, err
		}
		m.symbols = symbols
	}

	return m, nil
}

// encodeModule serializes a module into its envelope: magic, body checksum,
// msgpack body.
func encodeModule(m *Module) ([]byte, error) {
	payload := modulePayload{
		Schema:  FormatVersion,
		Name:    m.name,
		Version: m.version,
	}
	for _, ref := range m.refs {
		payload.References = append(payload.References, referencePayload{
			Name:    ref.Name,
			Version: ref.Version,
		})
	}
	for _, t := range m.types {
		tp := typePayload{Name: t.Name}
		for _, meth := range t.Methods {
			mp := methodPayload{Name: meth.Name}
			for _, ins := range meth.Body {
				mp.Body = append(mp.Body, instructionPayload{Op: ins.Op, Operand: ins.Operand})
			}
			tp.Methods = append(tp.Methods, mp)
		}
		payload.Types = append(payload.Types, tp)
	}

	body, err := msgpack.Marshal(&payload)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrSerializeFailed.Error())
	}

	out := make([]byte, headerSize+len(body))
	copy(out, Magic)
	binary.LittleEndian.PutUint64(out[4:headerSize], xxhash.Sum64(body))
	copy(out[headerSize:], body)
	return out, nil
}

// verifyEnvelope checks magic and checksum and returns the msgpack body.
func verifyEnvelope(data []byte) ([]byte, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], Magic) {
		return nil, domain.ErrBadMagic
	}
	body := data[headerSize:]
	want := binary.LittleEndian.Uint64(data[4:headerSize])
	if got := xxhash.Sum64(body); got != want {
		return nil, zerr.With(zerr.With(domain.ErrChecksumMismatch, "want", want), "got", got)
	}
	return body, nil
}
