package s3

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/dapur-gratis/resep-api/repository/blob"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ blob.Repository = &handler{}

type handler struct {
	client        *minio.Client
	basePublicUrl string
	bucketName    string
}

func New(
	endpoint string,
	accessKeyID string,
	secretAccessKey string,
	useSSL bool,
	bucketName string,
	basePublicUrl string,
) (*handler, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &handler{
		client:        client,
		bucketName:    bucketName,
		basePublicUrl: strings.TrimSuffix(basePublicUrl, "/"),
	}, nil
}

func (h *handler) Upload(ctx context.Context, key string, contentType string, payload io.Reader, size int64) (*blob.Data, *types.CommonError) {
	info, err := h.client.PutObject(ctx, h.bucketName, key, payload, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		// generic message for user.
		// we don't want users know where do we store data
		log.Err(err).Msgf("Failed to put object at %v", key)
		return nil, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "UPLOAD_FAILED", Message: "Server error when writing to storage"},
			},
		}
	}

	return &blob.Data{
		PublicURL:   h.URLFor(key),
		Key:         key,
		ContentType: contentType,
		ContentSize: info.Size,
	}, nil
}

func (h *handler) Delete(ctx context.Context, key string) *types.CommonError {
	err := h.client.RemoveObject(ctx, h.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		// an object that is already gone satisfies the delete
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
			return nil
		}
		log.Err(err).Msgf("Failed to remove object at %v", key)
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "DELETE_FAILED", Message: "Server error during delete"},
			},
		}
	}
	return nil
}

func (h *handler) Get(ctx context.Context, key string) (io.ReadCloser, *blob.Data, *types.CommonError) {
	object, err := h.client.GetObject(ctx, h.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		log.Err(err).Msgf("Cannot get object at key %v", key)
		return nil, nil, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "STORAGE_ERROR", Message: "Server error when reading from storage"},
			},
		}
	}

	return object, &blob.Data{Key: key, PublicURL: h.URLFor(key)}, nil
}

func (h *handler) CheckReachable(ctx context.Context) *types.CommonError {
	exists, err := h.client.BucketExists(ctx, h.bucketName)
	if err != nil {
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "STORE_UNREACHABLE", Message: "Failure when accessing storage: " + err.Error()},
			},
		}
	}
	if !exists {
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusFailedDependency, Code: "STORE_MISCONFIGURED", Message: "Bucket '" + h.bucketName + "' does not exist"},
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
