package password

import (
	"context"

	types "github.com/dapur-gratis/resep-api/types/http"
)

// Credentials live apart from the user profile so the profile entity
// never carries password material.
type Repository interface {
	Validate(ctx context.Context, userID, password string) (ok bool, errUC *types.CommonError)
	Set(ctx context.Context, userID, password string) (errUC *types.CommonError)
	Delete(ctx context.Context, userID string) (errUC *types.CommonError)
}
