package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dapur-gratis/resep-api/repository/limiter"
	"github.com/dapur-gratis/resep-api/repository/password"
	"github.com/dapur-gratis/resep-api/repository/user"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/auth"
)

const loginAttemptKey = "login-attempt"

type handler struct {
	userRepo      user.Repository
	passwordRepo  password.Repository
	limiterRepo   limiter.Repository
	signer        *simpleSigner
	tokenTTL      time.Duration
	maxAttempts   int
	attemptWindow time.Duration
}

var _ auth.Usecase = &handler{}

type Config struct {
	Issuer string

	// HMACKeys maps key identifier to secret. SigningKeyID selects
	// which entry signs new tokens; the rest only verify.
	HMACKeys     map[string]string
	SigningKeyID string

	TokenTTL      time.Duration
	MaxAttempts   int
	AttemptWindow time.Duration
}

func New(
	userRepo user.Repository,
	passwordRepo password.Repository,
	limiterRepo limiter.Repository,
	config Config,
) *handler {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 10
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = 15 * time.Minute
	}
	return &handler{
		userRepo:      userRepo,
		passwordRepo:  passwordRepo,
		limiterRepo:   limiterRepo,
		signer:        newSigner(config.Issuer, config.HMACKeys, config.SigningKeyID),
		tokenTTL:      config.TokenTTL,
		maxAttempts:   config.MaxAttempts,
		attemptWindow: config.AttemptWindow,
	}
}

func (h *handler) Login(ctx context.Context, email, password string) (string, *entity.User, *types.CommonError) {
	if email == "" || password == "" {
		return "", nil, unauthorized()
	}

	counter, remaining, errUC := h.limiterRepo.Get(ctx, email, loginAttemptKey)
	if errUC != nil {
		return "", nil, errUC
	}
	if counter >= h.maxAttempts {
		return "", nil, &types.CommonError{
			Errors: []types.Error{
				{
					HTTPCode: http.StatusTooManyRequests,
					Code:     "TOO_MANY_ATTEMPTS",
					Message:  "Too many login attempts. Try again in " + remaining.Round(time.Second).String(),
				},
			},
		}
	}

	userData, errUC := h.userRepo.GetByEmail(ctx, email)
	if errUC != nil {
		if errUC.Top().HTTPCode == http.StatusNotFound {
			h.recordFailedAttempt(ctx, email)
			return "", nil, unauthorized()
		}
		return "", nil, errUC
	}

	ok, errUC := h.passwordRepo.Validate(ctx, userData.Id, password)
	if errUC != nil {
		if errUC.Top().Code == "PASSWORD_NOT_CONFIGURED" {
			h.recordFailedAttempt(ctx, email)
			return "", nil, unauthorized()
		}
		return "", nil, errUC
	}
	if !ok {
		h.recordFailedAttempt(ctx, email)
		return "", nil, unauthorized()
	}

	token, err := h.signer.Sign(auth.Session{
		UserId:  userData.Id,
		IsAdmin: userData.IsAdmin,
	}, time.Now().Add(h.tokenTTL))
	if err != nil {
		log.Err(err).Msgf("Failed to sign session token for user '%v'", userData.Id)
		return "", nil, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusInternalServerError, Code: "SIGNING_FAILED", Message: "Cannot issue session token"},
			},
		}
	}

	return token, userData, nil
}

func (h *handler) Verify(ctx context.Context, token string) (*auth.Session, *types.CommonError) {
	session, err := h.signer.Verify(token)
	if err != nil {
		return nil, unauthorized()
	}
	return session, nil
}

func (h *handler) recordFailedAttempt(ctx context.Context, email string) {
	errUC := h.limiterRepo.Increment(ctx, email, loginAttemptKey, h.attemptWindow)
	if errUC != nil {
		log.Error().Msgf("Failed to record login attempt: %v", errUC.Top().Message)
	}
}

func unauthorized() *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Invalid email or password"},
		},
	}
}
