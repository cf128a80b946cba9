package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dapur-gratis/resep-api/repository/notification"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ notification.Repository = &handler{}

// In-memory broadcast history, for tests and local development.
type handler struct {
	mtx  *sync.Mutex
	data []entity.Notification
}

func New() *handler {
	return &handler{
		mtx:  &sync.Mutex{},
		data: make([]entity.Notification, 0),
	}
}

func (h *handler) Insert(ctx context.Context, data *entity.Notification) (*entity.Notification, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if data.Id == "" {
		data.Id = uuid.NewString()
	}
	data.SentAt = time.Now().Format(time.RFC3339)

	h.data = append(h.data, *data)
	copied := *data
	return &copied, nil
}

func (h *handler) History(ctx context.Context, limit int) ([]*entity.Notification, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	result := make([]*entity.Notification, 0, limit)
	for i := len(h.data) - 1; i >= 0 && len(result) < limit; i-- {
		copied := h.data[i]
		result = append(result, &copied)
	}
	return result, nil
}
