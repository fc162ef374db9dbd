// Package ports defines the core interfaces for the application.
package ports

import (
	"github.com/reweave/reweave/internal/core/domain"
	"github.com/reweave/reweave/internal/metadata"
)

// Transformer is the black-box code-injection step. It mutates the parsed
// module in place and may append diagnostics of any severity to the sink.
// It must not perform file I/O; dependency modules are reached through the
// module's reference table.
//
//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	// Transform applies the code injection to the module.
	Transform(module *metadata.Module, diags *domain.Diagnostics) error
}
