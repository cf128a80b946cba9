package inmemory

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dapur-gratis/resep-api/repository/recipe"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ recipe.Repository = &handler{}

// In-memory recipe table. No referential integrity with other tables,
// intended for tests and local development.
type handler struct {
	mtx  *sync.Mutex
	data map[string]entity.Recipe
}

func New() *handler {
	return &handler{
		mtx:  &sync.Mutex{},
		data: make(map[string]entity.Recipe),
	}
}

func (h *handler) Create(ctx context.Context, data *entity.Recipe) (*entity.Recipe, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if data.Id == "" {
		data.Id = uuid.NewString()
	}
	data.CreatedAt = time.Now().Format(time.RFC3339)

	h.data[data.Id] = *data
	copied := *data
	return &copied, nil
}

func (h *handler) GetAll(ctx context.Context) ([]*entity.Recipe, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	result := make([]*entity.Recipe, 0, len(h.data))
	for _, d := range h.data {
		copied := d
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	return result, nil
}

func (h *handler) GetByID(ctx context.Context, id string) (*entity.Recipe, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	d, ok := h.data[id]
	if !ok {
		return nil, notFound()
	}
	copied := d
	return &copied, nil
}

func (h *handler) GetByUserID(ctx context.Context, userID string) ([]*entity.Recipe, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	result := make([]*entity.Recipe, 0)
	for _, d := range h.data {
		if d.UserId == userID {
			copied := d
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	return result, nil
}

func (h *handler) Update(ctx context.Context, data *entity.Recipe) *types.CommonError {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	existing, ok := h.data[data.Id]
	if !ok {
		return notFound()
	}
	data.UserId = existing.UserId
	data.CreatedAt = existing.CreatedAt
	h.data[data.Id] = *data
	return nil
}

func (h *handler) Delete(ctx context.Context, id string) *types.CommonError {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if _, ok := h.data[id]; !ok {
		return notFound()
	}
	delete(h.data, id)
	return nil
}

func notFound() *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusNotFound, Code: "NOT_FOUND", Message: "Recipe not found"},
		},
	}
}
