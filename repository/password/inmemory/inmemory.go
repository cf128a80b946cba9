package inmemory

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/dapur-gratis/resep-api/repository/password"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ password.Repository = &handler{}

// In-memory credential store, for tests and local development.
// Hashes with bcrypt anyway so behavior matches the SQL variant.
type handler struct {
	mtx  *sync.Mutex
	data map[string][]byte
}

func New() *handler {
	return &handler{
		mtx:  &sync.Mutex{},
		data: make(map[string][]byte),
	}
}

func (h *handler) Validate(ctx context.Context, userID, plain string) (bool, *types.CommonError) {
	h.mtx.Lock()
	hashed, ok := h.data[userID]
	h.mtx.Unlock()

	if !ok {
		return false, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusUnauthorized, Code: "PASSWORD_NOT_CONFIGURED", Message: "No credential configured"},
			},
		}
	}

	err := bcrypt.CompareHashAndPassword(hashed, []byte(plain))
	return err == nil, nil
}

func (h *handler) Set(ctx context.Context, userID, plain string) *types.CommonError {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusInternalServerError, Code: "HASHING_FAILED", Message: "Cannot hash password"},
			},
		}
	}

	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.data[userID] = hashed
	return nil
}

func (h *handler) Delete(ctx context.Context, userID string) *types.CommonError {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	delete(h.data, userID)
	return nil
}
