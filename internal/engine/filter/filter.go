// Package filter implements the inclusion filter that decides whether a
// compiled unit is processed at all.
package filter

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/reweave/reweave/internal/core/domain"
)

// Filter decides, from a unit's declared name and its reference list,
// whether the pipeline should process it. It is pure string comparison;
// it runs for every compiled module in a build and the overwhelming
// majority are skipped.
type Filter struct {
	settings domain.Settings
}

// New creates a Filter for the given settings.
func New(settings domain.Settings) *Filter {
	return &Filter{settings: settings}
}

// ShouldProcess applies the inclusion rules in order: the global disable
// flag, the tool's own modules, the always-instrumented project modules,
// and finally a case-insensitive reference match against the runtime
// support library's file name.
func (f *Filter) ShouldProcess(unitName string, referencePaths []string) bool {
	if f.settings.Disabled {
		return false
	}

	if slices.Contains(f.settings.ToolModules, unitName) {
		return false
	}

	if slices.Contains(f.settings.AlwaysInstrument, unitName) {
		return true
	}

	for _, path := range referencePaths {
		if strings.EqualFold(filepath.Base(path), f.settings.SupportLibrary) {
			return true
		}
	}

	return false
}
