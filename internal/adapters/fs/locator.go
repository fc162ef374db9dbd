package fs

import (
	"os"
	"path/filepath"

	"github.com/reweave/reweave/internal/core/domain"
	"github.com/reweave/reweave/internal/core/ports"
)

var _ ports.ReferenceLocator = (*Locator)(nil)

// Locator implements ports.ReferenceLocator over the reference paths
// supplied for one processing run. The path list, the bare file names and
// the deduplicated containing directories are derived once at construction
// and read-only afterwards.
type Locator struct {
	paths []string
	names []string
	dirs  []string
}

// NewLocator creates a Locator for the given reference paths. Order is
// preserved: matches are returned in the order the references were
// supplied.
func NewLocator(referencePaths []string) *Locator {
	l := &Locator{
		paths: referencePaths,
		names: make([]string, len(referencePaths)),
	}
	seen := make(map[string]bool, len(referencePaths))
	for i, path := range referencePaths {
		l.names[i] = filepath.Base(path)
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			l.dirs = append(l.dirs, dir)
		}
	}
	return l
}

// Factory builds a Locator as a ports.ReferenceLocator. Wired as the
// application's ports.LocatorFactory.
func Factory(referencePaths []string) ports.ReferenceLocator {
	return NewLocator(referencePaths)
}

// FindFile returns the full path of the named dependency. It first scans
// the reference file names for an exact "<name>.dll" or "<name>.exe" match
// and falls back to probing each reference directory for "<name>.dll".
// The fallback never probes for executables; an executable dependency must
// appear in the reference list itself.
func (l *Locator) FindFile(name string) (string, bool) {
	library := name + domain.BinaryExt
	executable := name + domain.ExecutableExt
	for i, fileName := range l.names {
		if fileName == library || fileName == executable {
			return l.paths[i], true
		}
	}

	for _, dir := range l.dirs {
		candidate := filepath.Join(dir, library)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return "", false
}
