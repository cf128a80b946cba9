package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	password_repo "github.com/dapur-gratis/resep-api/repository/password"
	user_repo "github.com/dapur-gratis/resep-api/repository/user"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/attachment"
	"github.com/dapur-gratis/resep-api/usecase/user"
)

const minPasswordLength = 8

var _ user.Usecase = &handler{}

type handler struct {
	repo         user_repo.Repository
	passwordRepo password_repo.Repository
	coordinator  attachment.Coordinator
}

func New(
	repo user_repo.Repository,
	passwordRepo password_repo.Repository,
	coordinator attachment.Coordinator,
) *handler {
	return &handler{
		repo:         repo,
		passwordRepo: passwordRepo,
		coordinator:  coordinator,
	}
}

func (c *handler) Register(ctx context.Context, data *entity.User, password string, upload *entity.PendingUpload) (*entity.User, *types.CommonError) {
	if errUC := data.Validate(); errUC != nil {
		return nil, errUC
	}
	if len(password) < minPasswordLength {
		return nil, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "Password must be at least 8 characters"},
			},
		}
	}

	// admin flag is never accepted from registration input
	data.IsAdmin = false

	var created *entity.User
	_, errUC := c.coordinator.OnCreate(ctx, upload, func(ctx context.Context, imageURL string) *types.CommonError {
		data.ImageUrl = imageURL
		out, errUC := c.repo.Create(ctx, data)
		if errUC != nil {
			return errUC
		}
		created = out
		return nil
	})
	if errUC != nil {
		return nil, errUC
	}

	if errUC := c.passwordRepo.Set(ctx, created.Id, password); errUC != nil {
		// an account without credential cannot be logged into, take it
		// back out together with any avatar that was just uploaded
		_, errDel := c.coordinator.OnDelete(ctx, created.ImageUrl, func(ctx context.Context) *types.CommonError {
			return c.repo.Delete(ctx, created.Id)
		})
		if errDel != nil {
			log.Err(errDel.Err()).Msgf("Failed to roll back user %v after credential failure", created.Id)
		}
		return nil, errUC
	}

	return created, nil
}

func (c *handler) GetAll(ctx context.Context) ([]*entity.User, *types.CommonError) {
	return c.repo.GetAll(ctx)
}

func (c *handler) GetByID(ctx context.Context, id string) (*entity.User, *types.CommonError) {
	return c.repo.GetByID(ctx, id)
}

func (c *handler) Update(ctx context.Context, data *entity.User, image entity.ImageIntent) (*entity.User, *types.CommonError) {
	if errUC := data.Validate(); errUC != nil {
		return nil, errUC
	}

	current, errUC := c.repo.GetByID(ctx, data.Id)
	if errUC != nil {
		return nil, errUC
	}

	// server owned fields cannot be modified through profile update
	data.IsAdmin = current.IsAdmin
	data.FcmToken = current.FcmToken
	data.CreatedAt = current.CreatedAt

	_, errUC = c.coordinator.OnUpdate(ctx, image, current.ImageUrl, func(ctx context.Context, imageURL string) *types.CommonError {
		data.ImageUrl = imageURL
		return c.repo.Update(ctx, data)
	})
	if errUC != nil {
		return nil, errUC
	}

	return data, nil
}

func (c *handler) Delete(ctx context.Context, id string) *types.CommonError {
	current, errUC := c.repo.GetByID(ctx, id)
	if errUC != nil {
		return errUC
	}

	_, errUC = c.coordinator.OnDelete(ctx, current.ImageUrl, func(ctx context.Context) *types.CommonError {
		return c.repo.Delete(ctx, id)
	})
	if errUC != nil {
		return errUC
	}

	// credential cleanup after the account row is gone
	if errDel := c.passwordRepo.Delete(ctx, id); errDel != nil {
		log.Err(errDel.Err()).Msgf("Failed to delete credential of removed user %v", id)
	}

	return nil
}

func (c *handler) RegisterFCMToken(ctx context.Context, id string, token string) *types.CommonError {
	if token == "" {
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "FCM token is required"},
			},
		}
	}
	return c.repo.SetFCMToken(ctx, id, token)
}
