package handler

import (
	"context"

	recipe_repo "github.com/dapur-gratis/resep-api/repository/recipe"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/attachment"
	"github.com/dapur-gratis/resep-api/usecase/recipe"
)

var _ recipe.Usecase = &handler{}

type handler struct {
	repo        recipe_repo.Repository
	coordinator attachment.Coordinator
}

func New(repo recipe_repo.Repository, coordinator attachment.Coordinator) *handler {
	return &handler{
		repo:        repo,
		coordinator: coordinator,
	}
}

func (c *handler) Create(ctx context.Context, data *entity.Recipe, upload *entity.PendingUpload) (*entity.Recipe, *types.CommonError) {
	if errUC := data.Validate(); errUC != nil {
		return nil, errUC
	}

	var created *entity.Recipe
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

	return created, nil
}

func (c *handler) GetAll(ctx context.Context) ([]*entity.Recipe, *types.CommonError) {
	return c.repo.GetAll(ctx)
}

func (c *handler) GetByID(ctx context.Context, id string) (*entity.Recipe, *types.CommonError) {
	return c.repo.GetByID(ctx, id)
}

func (c *handler) GetByUser(ctx context.Context, userID string) ([]*entity.Recipe, *types.CommonError) {
	return c.repo.GetByUserID(ctx, userID)
}

func (c *handler) Update(ctx context.Context, data *entity.Recipe, image entity.ImageIntent) (*entity.Recipe, *types.CommonError) {
	if errUC := data.Validate(); errUC != nil {
		return nil, errUC
	}

	// current image reference comes from the repository, not the caller
	current, errUC := c.repo.GetByID(ctx, data.Id)
	if errUC != nil {
		return nil, errUC
	}

	// server owned fields cannot be modified after creation
	data.UserId = current.UserId
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
	return errUC
}
