package storage

// DocumentOption configures a Document
type DocumentOption func(*Document)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs FileSystem) DocumentOption {
	return func(d *Document) {
		d.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) DocumentOption {
	return func(d *Document) {
		d.lockFactory = factory
	}
}
