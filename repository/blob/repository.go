package blob

import (
	"context"
	"io"

	types "github.com/dapur-gratis/resep-api/types/http"
)

type Repository interface {
	// Upload generic binary to key
	// Key is internal address
	Upload(ctx context.Context, key string, contentType string, payload io.Reader, size int64) (*Data, *types.CommonError)

	// Delete generic binary at key
	// Deleting a key that is already gone is a success, the desired
	// postcondition (absence) holds either way
	Delete(ctx context.Context, key string) *types.CommonError

	// Get the data
	// Better just use the public URL,
	// But if the data is small & meant to be private then can use this
	Get(ctx context.Context, key string) (io.ReadCloser, *Data, *types.CommonError)

	// CheckReachable probes the store once, so misconfiguration surfaces
	// at boot instead of as a cascade of per-request failures
	CheckReachable(ctx context.Context) *types.CommonError

	// URLFor builds the public locator for a key
	URLFor(key string) string

	// KeyFromURL is the inverse of URLFor
	// Returns "" for foreign or malformed URLs instead of failing, since
	// deletion paths must tolerate legacy or hand-entered values
	KeyFromURL(url string) string
}

type Data struct {
	// The location of the data in the repository
	Key         string
	PublicURL   string
	ContentType string
	ContentSize int64
}
