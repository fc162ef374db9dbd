package ports

import "github.com/reweave/reweave/internal/core/domain"

// SettingsLoader loads the persisted pipeline settings.
//
//go:generate mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks
type SettingsLoader interface {
	// Load reads the settings for the given working directory, walking up
	// to find the settings file. A missing file yields the defaults.
	Load(cwd string) (domain.Settings, error)
}
