package inmemory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/dapur-gratis/resep-api/repository/blob"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ blob.Repository = &Handler{}

type object struct {
	content     []byte
	contentType string
}

// In-memory blob store. Used by tests and local development,
// behaves like the s3 implementation including the idempotent delete.
type Handler struct {
	mtx           *sync.Mutex
	data          map[string]object
	basePublicUrl string
}

func New(basePublicUrl string) *Handler {
	return &Handler{
		mtx:           &sync.Mutex{},
		data:          make(map[string]object),
		basePublicUrl: strings.TrimSuffix(basePublicUrl, "/"),
	}
}

func (h *Handler) Upload(ctx context.Context, key string, contentType string, payload io.Reader, size int64) (*blob.Data, *types.CommonError) {
	content, err := io.ReadAll(payload)
	if err != nil {
		return nil, &types.CommonError{
			Errors: []types.Error{
				{Code: "UPLOAD_FAILED", Message: "Failed to read payload: " + err.Error()},
			},
		}
	}

	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.data[key] = object{content: content, contentType: contentType}

	return &blob.Data{
		Key:         key,
		PublicURL:   h.URLFor(key),
		ContentType: contentType,
		ContentSize: int64(len(content)),
	}, nil
}

func (h *Handler) Delete(ctx context.Context, key string) *types.CommonError {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	// absent key is a success, the postcondition holds
	delete(h.data, key)
	return nil
}

func (h *Handler) Get(ctx context.Context, key string) (io.ReadCloser, *blob.Data, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	obj, ok := h.data[key]
	if !ok {
		return nil, nil, &types.CommonError{
			Errors: []types.Error{
				{Code: "NOT_FOUND", Message: "No object at key " + key},
			},
		}
	}

	return io.NopCloser(bytes.NewReader(obj.content)), &blob.Data{
		Key:         key,
		PublicURL:   h.URLFor(key),
		ContentType: obj.contentType,
		ContentSize: int64(len(obj.content)),
	}, nil
}

func (h *Handler) CheckReachable(ctx context.Context) *types.CommonError {
	return nil
}

func (h *Handler) URLFor(key string) string {
	return h.basePublicUrl + "/" + key
}

func (h *Handler) KeyFromURL(url string) string {
	if !strings.HasPrefix(url, h.basePublicUrl+"/") {
		return ""
	}
	return strings.TrimPrefix(url, h.basePublicUrl+"/")
}

// Exists reports whether a key currently holds an object. Test helper.
func (h *Handler) Exists(key string) bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	_, ok := h.data[key]
	return ok
}

// Len reports the number of stored objects. Test helper.
func (h *Handler) Len() int {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return len(h.data)
}
