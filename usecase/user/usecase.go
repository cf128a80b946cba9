package user

import (
	"context"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

type Usecase interface {
	// Register creates the account with its credential and optional avatar
	Register(ctx context.Context, data *entity.User, password string, upload *entity.PendingUpload) (*entity.User, *types.CommonError)

	GetAll(ctx context.Context) ([]*entity.User, *types.CommonError)

	GetByID(ctx context.Context, id string) (*entity.User, *types.CommonError)

	// Update applies profile fields and the avatar intent
	Update(ctx context.Context, data *entity.User, image entity.ImageIntent) (*entity.User, *types.CommonError)

	// Delete removes the account, its credential and its avatar
	Delete(ctx context.Context, id string) *types.CommonError

	// RegisterFCMToken stores the push token of the user's device
	RegisterFCMToken(ctx context.Context, id string, token string) *types.CommonError
}
