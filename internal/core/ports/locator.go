package ports

// ReferenceLocator finds a dependency's file path among the reference paths
// supplied for the current processing run.
//
//go:generate mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type ReferenceLocator interface {
	// FindFile returns the full path of the named dependency, or false
	// when no reference matches. A miss is not an error at this layer.
	FindFile(name string) (string, bool)
}

// LocatorFactory builds a ReferenceLocator for one run's reference paths.
type LocatorFactory func(referencePaths []string) ReferenceLocator
