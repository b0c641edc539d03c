// Package remote moves encrypted snapshots to and from the remote object
// store. The tracker only ever stores two small objects (the encrypted
// incomplete and completed stores), so the interface is a minimal
// upload/download pair addressed by object name.
package remote

import "context"

// Store is the remote side of a sync
type Store interface {
	// Upload writes an object, replacing any previous version.
	Upload(ctx context.Context, name string, data []byte) error

	// Download fetches an object's bytes. A missing object fails with
	// ErrNotFound so callers can tell "nothing uploaded yet" from a
	// broken transfer.
	Download(ctx context.Context, name string) ([]byte, error)
}
