package ports

// FileReader reads a whole file into memory, tolerating transient sharing
// violations from concurrent writers.
//
//go:generate mockgen -source=reader.go -destination=mocks/mock_reader.go -package=mocks
type FileReader interface {
	// ReadFile returns the file's full contents. It fails only after the
	// reader's retry budget is exhausted.
	ReadFile(path string) ([]byte, error)
}
