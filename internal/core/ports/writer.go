package ports

// OutputWriter writes build output to the destination tree.
//
//go:generate mockgen -source=writer.go -destination=mocks/mock_writer.go -package=mocks
type OutputWriter interface {
	// Write stores data at path, creating parent directories.
	// It reports false when the file already held identical content and was left untouched.
	Write(path string, data []byte) (bool, error)
	// Copy copies the file at src to dest with the same semantics as Write.
	Copy(src, dest string) (bool, error)
	// RemoveAll deletes every given path recursively. Missing paths are not an error.
	RemoveAll(paths ...string) error
}
