// Package instrument implements the default transformation step: it
// injects enter/exit sampling calls into every method body so the runtime
// support library can attribute samples to user code.
package instrument

import (
	"go.trai.ch/zerr"

	"github.com/reweave/reweave/internal/core/domain"
	"github.com/reweave/reweave/internal/core/ports"
	"github.com/reweave/reweave/internal/metadata"
)

// Profiler entry points provided by the runtime support library.
const (
	enterMethod = "Reweave.Profiler::Enter"
	exitMethod  = "Reweave.Profiler::Exit"
)

var _ ports.Transformer = (*Weaver)(nil)

// Weaver injects sampling calls at method entry and every return site.
type Weaver struct {
	supportModule string
}

// NewWeaver creates a Weaver that binds injected calls against the given
// support module name.
func NewWeaver(supportModule string) *Weaver {
	return &Weaver{supportModule: supportModule}
}

// Transform rewrites every method body in place. Methods already carrying
// an injected entry call are left alone, so re-running the weaver over an
// already-woven module is a no-op.
func (w *Weaver) Transform(m *metadata.Module, diags *domain.Diagnostics) error {
	ref, err := m.ImportReference(w.supportModule, "")
	if err != nil {
		return zerr.Wrap(err, "failed to import support library reference")
	}

	enter := "[" + ref.Name + "]" + enterMethod
	exit := "[" + ref.Name + "]" + exitMethod

	woven := 0
	for _, t := range m.Types() {
		for _, method := range t.Methods {
			if w.weaveMethod(t, method, enter, exit) {
				woven++
			}
		}
	}

	if woven > 0 {
		diags.Infof("instrumented %d methods", woven)
	}
	return nil
}

// weaveMethod brackets the method body with enter/exit calls. Returns
// false when the method is empty or already instrumented.
func (w *Weaver) weaveMethod(t *metadata.TypeDef, method *metadata.MethodDef, enter, exit string) bool {
	if len(method.Body) == 0 {
		return false
	}
	if len(method.Body) >= 2 && method.Body[1].Op == "call" && method.Body[1].Operand == enter {
		return false
	}

	marker := t.Name + "::" + method.Name
	body := make([]metadata.Instruction, 0, len(method.Body)+4)
	body = append(body,
		metadata.Instruction{Op: "ldstr", Operand: marker},
		metadata.Instruction{Op: "call", Operand: enter},
	)
	for _, ins := range method.Body {
		if ins.Op == "ret" {
			body = append(body, metadata.Instruction{Op: "call", Operand: exit})
		}
		body = append(body, ins)
	}
	method.Body = body
	return true
}
