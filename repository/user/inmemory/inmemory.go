package inmemory

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dapur-gratis/resep-api/repository/user"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ user.Repository = &handler{}

// In-memory user table, for tests and local development.
type handler struct {
	mtx  *sync.Mutex
	data map[string]entity.User
}

func New() *handler {
	return &handler{
		mtx:  &sync.Mutex{},
		data: make(map[string]entity.User),
	}
}

func (h *handler) Create(ctx context.Context, data *entity.User) (*entity.User, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	for _, d := range h.data {
		if d.Email == data.Email {
			return nil, &types.CommonError{
				Errors: []types.Error{
					{HTTPCode: http.StatusConflict, Code: "ALREADY_EXISTS", Message: "Email already registered"},
				},
			}
		}
	}

	if data.Id == "" {
		data.Id = uuid.NewString()
	}
	data.CreatedAt = time.Now().Format(time.RFC3339)

	h.data[data.Id] = *data
	copied := *data
	return &copied, nil
}

func (h *handler) GetAll(ctx context.Context) ([]*entity.User, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	result := make([]*entity.User, 0, len(h.data))
	for _, d := range h.data {
		copied := d
		result = append(result, &copied)
	}
	return result, nil
}

func (h *handler) GetByID(ctx context.Context, id string) (*entity.User, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	d, ok := h.data[id]
	if !ok {
		return nil, notFound()
	}
	copied := d
	return &copied, nil
}

func (h *handler) GetByEmail(ctx context.Context, email string) (*entity.User, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	for _, d := range h.data {
		if d.Email == email {
			copied := d
			return &copied, nil
		}
	}
	return nil, notFound()
}

func (h *handler) Update(ctx context.Context, data *entity.User) *types.CommonError {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	existing, ok := h.data[data.Id]
	if !ok {
		return notFound()
	}
	data.FcmToken = existing.FcmToken
	data.IsAdmin = existing.IsAdmin
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

func (h *handler) SetFCMToken(ctx context.Context, id string, token string) *types.CommonError {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	d, ok := h.data[id]
	if !ok {
		return notFound()
	}
	d.FcmToken = token
	h.data[id] = d
	return nil
}

func (h *handler) ListFCMTokens(ctx context.Context) ([]string, *types.CommonError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	result := make([]string, 0)
	for _, d := range h.data {
		if d.FcmToken != "" {
			result = append(result, d.FcmToken)
		}
	}
	return result, nil
}

func notFound() *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusNotFound, Code: "NOT_FOUND", Message: "User not found"},
		},
	}
}
