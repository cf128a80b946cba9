package recipe

import (
	"context"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

type Repository interface {
	// Create persists a new recipe, including its image URL column
	Create(ctx context.Context, data *entity.Recipe) (*entity.Recipe, *types.CommonError)

	GetAll(ctx context.Context) ([]*entity.Recipe, *types.CommonError)

	// GetByID returns NOT_FOUND when no such recipe exists
	GetByID(ctx context.Context, id string) (*entity.Recipe, *types.CommonError)

	GetByUserID(ctx context.Context, userID string) ([]*entity.Recipe, *types.CommonError)

	// Update overwrites the mutable fields including the image URL column.
	// NOT_FOUND when no row matched.
	Update(ctx context.Context, data *entity.Recipe) *types.CommonError

	// Delete returns NOT_FOUND when no row matched
	Delete(ctx context.Context, id string) *types.CommonError
}
