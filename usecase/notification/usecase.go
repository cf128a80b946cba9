package notification

import (
	"context"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

type Usecase interface {
	// Broadcast pushes the message to every registered device and
	// records it in the sent history
	Broadcast(ctx context.Context, sentBy, title, message string) (*entity.BroadcastReport, *types.CommonError)

	// SendToDevice pushes the message to one user's device only;
	// not recorded in the broadcast history
	SendToDevice(ctx context.Context, userID, title, message string) *types.CommonError

	// History lists the most recent broadcasts, newest first
	History(ctx context.Context) ([]*entity.Notification, *types.CommonError)
}
