package recipe

import (
	"context"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

type Usecase interface {
	// Create stores the recipe and, when an upload is present, its image.
	// The image is uploaded before the row is written; a row write failure
	// compensates the upload.
	Create(ctx context.Context, data *entity.Recipe, upload *entity.PendingUpload) (*entity.Recipe, *types.CommonError)

	GetAll(ctx context.Context) ([]*entity.Recipe, *types.CommonError)

	GetByID(ctx context.Context, id string) (*entity.Recipe, *types.CommonError)

	GetByUser(ctx context.Context, userID string) ([]*entity.Recipe, *types.CommonError)

	// Update applies the recipe fields and the image intent. The current
	// image reference is read fresh from the repository, never trusted
	// from the caller.
	Update(ctx context.Context, data *entity.Recipe, image entity.ImageIntent) (*entity.Recipe, *types.CommonError)

	// Delete removes the recipe row first, then its image, best effort
	Delete(ctx context.Context, id string) *types.CommonError
}
