package notification

import (
	"context"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

type Repository interface {
	// Insert appends a broadcast to the sent history
	Insert(ctx context.Context, data *entity.Notification) (*entity.Notification, *types.CommonError)

	// History returns the most recent entries, newest first
	History(ctx context.Context, limit int) ([]*entity.Notification, *types.CommonError)
}
