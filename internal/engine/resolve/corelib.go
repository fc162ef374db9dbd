package resolve

import "github.com/reweave/reweave/internal/metadata"

// NewCoreLibImporter returns an importer that redirects references to
// alternate names of the platform base library onto the one canonical
// reference the module already declares. Different build profiles name
// the base library differently; without the substitution a module
// assembled from dependencies resolved under different profiles could end
// up with two incompatible base-library references, which a strict loader
// rejects.
//
// The substitution only activates when the module already declares a
// reference to one of the aliases; otherwise the request falls through to
// default import.
func NewCoreLibImporter(aliases []string) metadata.ImporterFunc {
	aliasSet := make(map[string]bool, len(aliases))
	for _, alias := range aliases {
		aliasSet[alias] = true
	}

	return func(m *metadata.Module, name, version string) (*metadata.Reference, error) {
		if !aliasSet[name] {
			return m.DefaultImport(name, version)
		}
		for _, ref := range m.References() {
			if aliasSet[ref.Name] {
				return ref, nil
			}
		}
		return m.DefaultImport(name, version)
	}
}
