package domain

const (
	// BinaryExt is the file extension of compiled library modules.
	BinaryExt = ".dll"

	// ExecutableExt is the file extension of compiled executable modules.
	ExecutableExt = ".exe"

	// SymbolExt is the file extension of companion debug-symbol files.
	SymbolExt = ".pdb"

	// RefsExt is the file extension of companion reference-list files
	// written by the build host (one absolute path per line).
	RefsExt = ".refs"

	// SettingsFileName is the name of the persisted settings file.
	SettingsFileName = "reweave.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
