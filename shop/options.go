package shop

import (
	"log/slog"

	"github.com/arthur-debert/simpleshop/catalog"
	"github.com/arthur-debert/simpleshop/metrics"
	"github.com/arthur-debert/simpleshop/permission"
	"github.com/arthur-debert/simpleshop/storage"
)

// Option configures a Manager
type Option func(*Manager)

// WithCodec sets the item payload codec. The default is catalog.BlobCodec.
func WithCodec(codec catalog.Codec) Option {
	return func(m *Manager) {
		m.codec = codec
	}
}

// WithRegistry sets the permission registry the catalog is kept in sync
// with. The default is a fresh permission.MemoryRegistry.
func WithRegistry(registry permission.Registry) Option {
	return func(m *Manager) {
		m.registry = registry
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics sets the collectors loads, saves and permission changes are
// recorded on
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithFileSystem sets the file system the document is stored on
func WithFileSystem(fs storage.FileSystem) Option {
	return func(m *Manager) {
		m.docOpts = append(m.docOpts, storage.WithFileSystem(fs))
	}
}

// WithFileLockFactory sets how the document's cross-process lock is made
func WithFileLockFactory(factory storage.FileLockFactory) Option {
	return func(m *Manager) {
		m.docOpts = append(m.docOpts, storage.WithFileLockFactory(factory))
	}
}
