package user

import (
	"context"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

type Repository interface {
	// Create persists a new user, including the avatar image URL column
	Create(ctx context.Context, data *entity.User) (*entity.User, *types.CommonError)

	GetAll(ctx context.Context) ([]*entity.User, *types.CommonError)

	// GetByID returns NOT_FOUND when no such user exists
	GetByID(ctx context.Context, id string) (*entity.User, *types.CommonError)

	// GetByEmail returns NOT_FOUND when no such user exists
	GetByEmail(ctx context.Context, email string) (*entity.User, *types.CommonError)

	// Update overwrites profile fields including the avatar image URL column
	Update(ctx context.Context, data *entity.User) *types.CommonError

	Delete(ctx context.Context, id string) *types.CommonError

	// SetFCMToken registers the push token of the user's device
	SetFCMToken(ctx context.Context, id string, token string) *types.CommonError

	// ListFCMTokens returns every non-empty registered push token
	ListFCMTokens(ctx context.Context) ([]string, *types.CommonError)
}
