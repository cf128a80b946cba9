package attachment

import (
	"context"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

type Outcome int32

const (
	OutcomeNoChange Outcome = iota
	OutcomeCreated
	OutcomeReplaced
	OutcomeRemoved
)

// Result of one coordinated mutation.
// Ref is the attachment the record points at afterwards, nil when none.
type Result struct {
	Outcome Outcome
	Ref     *entity.AttachmentRef
}

// PersistFunc commits the owning record with the given image URL
// ("" meaning no attachment). It is the durable write the coordinator
// orders its store operations around.
type PersistFunc func(ctx context.Context, imageURL string) *types.CommonError

// DeleteRecordFunc removes the owning record.
type DeleteRecordFunc func(ctx context.Context) *types.CommonError

// Coordinator owns the ordering invariant between the record table and
// the blob store: the record is the source of truth, blob operations are
// satellites. New blobs are stored before the record commits to them,
// superseded blobs are deleted only after the record no longer points
// at them.
type Coordinator interface {
	// OnCreate stores the optional upload, then persists the record.
	// A repository failure after a successful upload triggers a
	// compensating delete of the fresh blob.
	OnCreate(ctx context.Context, upload *entity.PendingUpload, persist PersistFunc) (*Result, *types.CommonError)

	// OnUpdate applies the image intent against the record's current
	// image URL (fetched fresh from the repository, never caller input).
	OnUpdate(ctx context.Context, intent entity.ImageIntent, currentURL string, persist PersistFunc) (*Result, *types.CommonError)

	// OnDelete removes the record first; only when that succeeds is the
	// blob deleted, best effort.
	OnDelete(ctx context.Context, currentURL string, deleteRecord DeleteRecordFunc) (*Result, *types.CommonError)
}
