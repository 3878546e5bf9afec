// Package upload stores uploaded binaries (profile images) and hands back
// opaque references. Replaced binaries are retained until overwritten; no
// cleanup pass exists.
package upload

import (
	"context"
	"io"
)

// Store persists uploaded binaries. Save returns a reference that is stable
// across restarts; URL resolves a reference to a client-retrievable location.
type Store interface {
	Save(ctx context.Context, filename string, content io.Reader) (ref string, err error)
	URL(ref string) string
}
