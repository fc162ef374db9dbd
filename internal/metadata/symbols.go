package metadata

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"go.trai.ch/zerr"

	"github.com/reweave/reweave/internal/core/domain"
)

// cbor encoding options with canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("metadata: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// SymbolFile is the debug-symbol companion of a module: it maps instruction
// offsets back to source locations and is rewritten in lockstep with the
// module binary.
type SymbolFile struct {
	Module string          `cbor:"module"`
	Points []SequencePoint `cbor:"points"`
}

// SequencePoint maps one instruction offset to a source location.
type SequencePoint struct {
	Type   string `cbor:"type"`
	Method string `cbor:"method"`
	Offset uint32 `cbor:"offset"`
	File   string `cbor:"file"`
	Line   uint32 `cbor:"line"`
	Column uint32 `cbor:"column"`
}

// EncodeSymbols serializes a SymbolFile to canonical CBOR bytes.
func EncodeSymbols(s *SymbolFile) ([]byte, error) {
	data, err := cborEncMode.Marshal(s)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrSerializeFailed.Error())
	}
	return data, nil
}

// DecodeSymbols deserializes a SymbolFile from CBOR bytes.
func DecodeSymbols(data []byte) (*SymbolFile, error) {
	var s SymbolFile
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, zerr.Wrap(err, domain.ErrParseFailed.Error())
	}
	return &s, nil
}
