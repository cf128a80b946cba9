package auth

import (
	"context"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

// Session is the verified identity carried by a bearer token.
type Session struct {
	UserId  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

type Usecase interface {
	// Login validates the credential and issues a signed token
	Login(ctx context.Context, email, password string) (token string, user *entity.User, errUC *types.CommonError)

	// Verify checks the token signature and expiry
	Verify(ctx context.Context, token string) (*Session, *types.CommonError)
}
