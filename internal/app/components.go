package app

import "github.com/reweave/reweave/internal/core/ports"

// Components bundles the application with the wired adapters the entry
// point needs direct access to.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NewComponents creates a Components bundle.
func NewComponents(a *App, log ports.Logger) *Components {
	return &Components{App: a, Logger: log}
}
