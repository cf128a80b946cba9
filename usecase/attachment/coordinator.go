package attachment

import (
	"bytes"
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dapur-gratis/resep-api/repository/blob"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ Coordinator = &handler{}

type handler struct {
	blobRepo  blob.Repository
	policy    Policy
	partition string
}

// New creates a lifecycle coordinator for one owner kind.
// partition namespaces the generated keys ("recipes", "profile", ..).
func New(blobRepo blob.Repository, policy Policy, partition string) *handler {
	return &handler{
		blobRepo:  blobRepo,
		policy:    policy,
		partition: partition,
	}
}

func (h *handler) OnCreate(ctx context.Context, upload *entity.PendingUpload, persist PersistFunc) (*Result, *types.CommonError) {
	if upload == nil {
		if errUC := persist(ctx, ""); errUC != nil {
			return nil, errUC
		}
		return &Result{Outcome: OutcomeNoChange}, nil
	}

	ref, errUC := h.store(ctx, upload)
	if errUC != nil {
		return nil, errUC
	}

	if errUC := persist(ctx, ref.Url); errUC != nil {
		// the record never existed, compensate the orphaned upload
		h.cleanup(ctx, ref.Key)
		return nil, errUC
	}

	return &Result{Outcome: OutcomeCreated, Ref: ref}, nil
}

func (h *handler) OnUpdate(ctx context.Context, intent entity.ImageIntent, currentURL string, persist PersistFunc) (*Result, *types.CommonError) {
	switch intent.Action {
	case entity.ImageReplace:
		return h.replace(ctx, intent.Upload, currentURL, persist)
	case entity.ImageRemove:
		return h.remove(ctx, currentURL, persist)
	default:
		if errUC := persist(ctx, currentURL); errUC != nil {
			return nil, errUC
		}
		result := &Result{Outcome: OutcomeNoChange}
		if currentURL != "" {
			result.Ref = &entity.AttachmentRef{Key: h.blobRepo.KeyFromURL(currentURL), Url: currentURL}
		}
		return result, nil
	}
}

func (h *handler) replace(ctx context.Context, upload *entity.PendingUpload, currentURL string, persist PersistFunc) (*Result, *types.CommonError) {
	ref, errUC := h.store(ctx, upload)
	if errUC != nil {
		return nil, errUC
	}

	if errUC := persist(ctx, ref.Url); errUC != nil {
		h.cleanup(ctx, ref.Key)
		return nil, errUC
	}

	// Only after the new reference is durably committed may the old
	// blob go. A crash in between leaves the record pointing at the
	// new blob and leaks the old one, never the other way around.
	if oldKey := h.blobRepo.KeyFromURL(currentURL); oldKey != "" {
		h.cleanup(ctx, oldKey)
		return &Result{Outcome: OutcomeReplaced, Ref: ref}, nil
	}

	return &Result{Outcome: OutcomeCreated, Ref: ref}, nil
}

func (h *handler) remove(ctx context.Context, currentURL string, persist PersistFunc) (*Result, *types.CommonError) {
	if errUC := persist(ctx, ""); errUC != nil {
		return nil, errUC
	}

	if oldKey := h.blobRepo.KeyFromURL(currentURL); oldKey != "" {
		h.cleanup(ctx, oldKey)
		return &Result{Outcome: OutcomeRemoved}, nil
	}

	return &Result{Outcome: OutcomeNoChange}, nil
}

func (h *handler) OnDelete(ctx context.Context, currentURL string, deleteRecord DeleteRecordFunc) (*Result, *types.CommonError) {
	if errUC := deleteRecord(ctx); errUC != nil {
		// record survived, its blob must too
		return nil, errUC
	}

	if oldKey := h.blobRepo.KeyFromURL(currentURL); oldKey != "" {
		h.cleanup(ctx, oldKey)
		return &Result{Outcome: OutcomeRemoved}, nil
	}

	return &Result{Outcome: OutcomeNoChange}, nil
}

// store validates, then uploads. Validation failures never reach the store.
func (h *handler) store(ctx context.Context, upload *entity.PendingUpload) (*entity.AttachmentRef, *types.CommonError) {
	if errUC := h.policy.Validate(upload.ContentType, int64(len(upload.Content))); errUC != nil {
		return nil, errUC
	}

	key := blob.GenerateKey(upload.OriginalName, h.partition)
	data, errUC := h.blobRepo.Upload(ctx, key, upload.ContentType, bytes.NewReader(upload.Content), int64(len(upload.Content)))
	if errUC != nil {
		return nil, errUC
	}

	return &entity.AttachmentRef{Key: data.Key, Url: data.PublicURL}, nil
}

// cleanup deletes a blob whose record no longer references it. Failure is
// a recoverable leak for out-of-band reconciliation, not a caller error.
func (h *handler) cleanup(ctx context.Context, key string) {
	if errUC := h.blobRepo.Delete(ctx, key); errUC != nil {
		log.Err(errUC.Err()).Msgf("Failed to clean up superseded blob %v", key)
	}
}
