package domain

import "go.trai.ch/zerr"

var (
	// ErrReferenceNotFound is returned when a dependency name cannot be
	// matched to any file. Non-fatal at resolution time.
	ErrReferenceNotFound = zerr.New("reference not found")

	// ErrReadFailed is returned when a file cannot be read after
	// exhausting retries.
	ErrReadFailed = zerr.New("failed to read file")

	// ErrShortRead is returned for a single read attempt that produced
	// fewer bytes than the reported file length.
	ErrShortRead = zerr.New("short read, file still being written")

	// ErrParseFailed is returned when module binary or symbol data is
	// malformed.
	ErrParseFailed = zerr.New("failed to parse module")

	// ErrBadMagic is returned when module data does not start with the
	// expected format magic.
	ErrBadMagic = zerr.New("not a module file")

	// ErrChecksumMismatch is returned when module data fails its embedded
	// content checksum.
	ErrChecksumMismatch = zerr.New("module checksum mismatch")

	// ErrTransformFailed is returned when the transformation step fails.
	ErrTransformFailed = zerr.New("transformation failed")

	// ErrSerializeFailed is returned when writing the rewritten module fails.
	ErrSerializeFailed = zerr.New("failed to serialize module")

	// ErrModuleClosed is returned when a module is used after Close.
	ErrModuleClosed = zerr.New("module is closed")

	// ErrSettingsReadFailed is returned when the settings file cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings file")

	// ErrSettingsParseFailed is returned when the settings file cannot be parsed.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrNoUnitsSpecified is returned when the rewrite command is invoked
	// without any module paths.
	ErrNoUnitsSpecified = zerr.New("no modules specified")

	// ErrUnitReadFailed is returned when a unit's input files cannot be read.
	ErrUnitReadFailed = zerr.New("failed to read compiled unit")

	// ErrOutputWriteFailed is returned when a rewritten module cannot be
	// written back to disk.
	ErrOutputWriteFailed = zerr.New("failed to write rewritten module")
)
