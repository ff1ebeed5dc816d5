// Package storage abstracts where uploaded PDFs live. The core only needs a
// byte-fetch capability; the backend is chosen once at bootstrap.
package storage

import "context"

// Fetcher retrieves a stored object's bytes by its storage path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}
