package ports

import "context"

// StoreTransfer moves the whole store in and out as a single SQLite file.
type StoreTransfer interface {
	// ExportTo writes a consistent snapshot of the store to path.
	ExportTo(ctx context.Context, path string) error
	// ImportFrom replaces the contents of all funnel tables with the ones
	// found in the SQLite file at path.
	ImportFrom(ctx context.Context, path string) error
}
