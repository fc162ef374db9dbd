// Package config provides the persisted settings loader for reweave.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/reweave/reweave/internal/core/domain"
	"github.com/reweave/reweave/internal/core/ports"
)

var _ ports.SettingsLoader = (*Loader)(nil)

// Loader implements ports.SettingsLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// settingsFile is the YAML schema of reweave.yaml. All fields are
// optional; unset fields fall back to the defaults.
type settingsFile struct {
	Disabled           bool     `yaml:"disabled"`
	ToolModules        []string `yaml:"tool_modules"`
	AlwaysInstrument   []string `yaml:"always_instrument"`
	SupportLibrary     string   `yaml:"support_library"`
	CoreLibraryAliases []string `yaml:"core_library_aliases"`
}

// Load reads the settings for the given working directory, walking up to
// find reweave.yaml. A missing file yields the defaults; a malformed file
// is a configuration error.
func (l *Loader) Load(cwd string) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	path, ok := l.findSettings(cwd)
	if !ok {
		return settings, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path is discovered under the caller's working directory
	if err != nil {
		return settings, zerr.With(zerr.Wrap(err, domain.ErrSettingsReadFailed.Error()), "path", path)
	}

	var file settingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return settings, zerr.With(zerr.Wrap(err, domain.ErrSettingsParseFailed.Error()), "path", path)
	}

	settings.Disabled = file.Disabled
	settings.ToolModules = append(settings.ToolModules, file.ToolModules...)
	settings.AlwaysInstrument = append(settings.AlwaysInstrument, file.AlwaysInstrument...)
	settings.CoreLibraryAliases = append(settings.CoreLibraryAliases, file.CoreLibraryAliases...)
	if file.SupportLibrary != "" {
		settings.SupportLibrary = file.SupportLibrary
	}

	return settings, nil
}

// findSettings walks up from cwd looking for reweave.yaml.
func (l *Loader) findSettings(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.SettingsFileName)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, true
		}
		if !os.IsNotExist(err) {
			l.logger.Warn(fmt.Sprintf("cannot probe %s: %v", candidate, err))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}
