package gcs

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/dapur-gratis/resep-api/repository/blob"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ blob.Repository = &handler{}

type handler struct {
	gcsClient     *storage.Client
	bucketName    string
	basePublicUrl string
}

func New(
	ctx context.Context,
	bucketName string,
	basePublicUrl string,
	opts ...option.ClientOption,
) (*handler, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &handler{
		gcsClient:     client,
		bucketName:    bucketName,
		basePublicUrl: strings.TrimSuffix(basePublicUrl, "/"),
	}, nil
}

func (h *handler) Upload(ctx context.Context, key string, contentType string, payload io.Reader, size int64) (*blob.Data, *types.CommonError) {
	object := h.gcsClient.Bucket(h.bucketName).Object(key)
	objWriter := object.NewWriter(ctx)
	objWriter.ContentType = contentType

	length, err := io.Copy(objWriter, payload)
	if err != nil {
		// generic message for user.
		// we don't want users know where do we store data
		log.Err(err).Msgf("Error when writing data to object in GCS")
		return nil, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "UPLOAD_FAILED", Message: "Server error when writing to storage"},
			},
		}
	}
	if err := objWriter.Close(); err != nil {
		log.Err(err).Msgf("Error when finish writing data to object in GCS")
		return nil, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "UPLOAD_FAILED", Message: "Server error when closing connection to storage"},
			},
		}
	}

	return &blob.Data{
		PublicURL:   h.URLFor(key),
		Key:         key,
		ContentType: contentType,
		ContentSize: length,
	}, nil
}

func (h *handler) Delete(ctx context.Context, key string) *types.CommonError {
	err := h.gcsClient.Bucket(h.bucketName).Object(key).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		log.Err(err).Msgf("Error when deleting object %v in GCS", key)
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "DELETE_FAILED", Message: "Server error during delete"},
			},
		}
	}
	return nil
}

func (h *handler) Get(ctx context.Context, key string) (io.ReadCloser, *blob.Data, *types.CommonError) {
	reader, err := h.gcsClient.Bucket(h.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		log.Err(err).Msgf("Cannot get object at key %v", key)
		return nil, nil, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "STORAGE_ERROR", Message: "Server error when reading from storage"},
			},
		}
	}
	return reader, &blob.Data{Key: key, PublicURL: h.URLFor(key)}, nil
}

func (h *handler) CheckReachable(ctx context.Context) *types.CommonError {
	_, err := h.gcsClient.Bucket(h.bucketName).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrBucketNotExist) {
			return &types.CommonError{
				Errors: []types.Error{
					{HTTPCode: http.StatusFailedDependency, Code: "STORE_MISCONFIGURED", Message: "Bucket '" + h.bucketName + "' does not exist"},
				},
			}
		}
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "STORE_UNREACHABLE", Message: "Failure when accessing storage: " + err.Error()},
			},
		}
	}
	return nil
}

func (h *handler) URLFor(key string) string {
	return h.basePublicUrl + "/" + key
}

func (h *handler) KeyFromURL(url string) string {
	if !strings.HasPrefix(url, h.basePublicUrl+"/") {
		return ""
	}
	return strings.TrimPrefix(url, h.basePublicUrl+"/")
}
