package domain

// Settings is the persisted configuration consumed by the pipeline.
// The editor-side UI toggles Disabled on the persisted file; the pipeline
// only ever reads it.
type Settings struct {
	// Disabled turns the whole pipeline off. Every unit is then reported
	// as not processed.
	Disabled bool `yaml:"disabled"`

	// ToolModules are the rewriter's own module names. They are never
	// processed, so the tool cannot rewrite itself or its runtime
	// support library.
	ToolModules []string `yaml:"tool_modules"`

	// AlwaysInstrument are top-level project module names that are
	// processed unconditionally, regardless of their reference lists.
	AlwaysInstrument []string `yaml:"always_instrument"`

	// SupportLibrary is the file name of the runtime support library.
	// A unit whose reference list contains this file name (compared
	// case-insensitively) is processed.
	SupportLibrary string `yaml:"support_library"`

	// CoreLibraryAliases are the interchangeable names the platform base
	// library may be referenced under, depending on build profile.
	CoreLibraryAliases []string `yaml:"core_library_aliases"`
}

// DefaultSettings returns the settings used when no reweave.yaml is found.
func DefaultSettings() Settings {
	return Settings{
		ToolModules: []string{
			"Reweave.Runtime",
			"Reweave.Weaver",
		},
		AlwaysInstrument: []string{
			"Assembly-CSharp",
			"Assembly-CSharp-firstpass",
			"Assembly-CSharp-Editor",
			"Assembly-CSharp-Editor-firstpass",
		},
		SupportLibrary: "Reweave.Runtime.dll",
		CoreLibraryAliases: []string{
			"mscorlib",
			"System.Private.CoreLib",
			"netstandard",
			"System.Runtime",
		},
	}
}
