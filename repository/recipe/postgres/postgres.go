package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/dapur-gratis/resep-api/repository/recipe"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ recipe.Repository = &handler{}

type handler struct {
	db        *sqlx.DB
	tableName string
}

func New(db *sqlx.DB, tableName string) *handler {
	return &handler{
		db:        db,
		tableName: tableName,
	}
}

type row struct {
	Id              string    `db:"id"`
	Name            string    `db:"name"`
	Ingredients     []byte    `db:"ingredients"`
	Steps           []byte    `db:"steps"`
	PrepTimeMinutes int32     `db:"prep_time_minutes"`
	UserId          string    `db:"user_id"`
	ImageUrl        string    `db:"image_url"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r row) toEntity() (*entity.Recipe, error) {
	var ingredients, steps []string
	if err := json.Unmarshal(r.Ingredients, &ingredients); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(r.Steps, &steps); err != nil {
		return nil, err
	}
	return &entity.Recipe{
		Id:              r.Id,
		Name:            r.Name,
		Ingredients:     ingredients,
		Steps:           steps,
		PrepTimeMinutes: r.PrepTimeMinutes,
		UserId:          r.UserId,
		ImageUrl:        r.ImageUrl,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (h *handler) Create(ctx context.Context, data *entity.Recipe) (*entity.Recipe, *types.CommonError) {
	if data.Id == "" {
		data.Id = uuid.NewString()
	}
	now := time.Now()
	data.CreatedAt = now.Format(time.RFC3339)

	ingredients, errMarshal := json.Marshal(data.Ingredients)
	if errMarshal != nil {
		return nil, repositoryFailed("Failed to serialize ingredients")
	}
	steps, errMarshal := json.Marshal(data.Steps)
	if errMarshal != nil {
		return nil, repositoryFailed("Failed to serialize steps")
	}

	_, errExec := h.db.ExecContext(ctx,
		`INSERT INTO `+h.tableName+` (id, name, ingredients, steps, prep_time_minutes, user_id, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		data.Id, data.Name, ingredients, steps, data.PrepTimeMinutes, data.UserId, data.ImageUrl, now,
	)
	if errExec != nil {
		log.Err(errExec).Msgf("Insert recipe query failed")
		return nil, repositoryFailed("Failed to store recipe")
	}

	return data, nil
}

func (h *handler) GetAll(ctx context.Context) ([]*entity.Recipe, *types.CommonError) {
	return h.query(ctx,
		`SELECT id, name, ingredients, steps, prep_time_minutes, user_id, image_url, created_at FROM `+h.tableName+` ORDER BY created_at DESC`)
}

func (h *handler) GetByUserID(ctx context.Context, userID string) ([]*entity.Recipe, *types.CommonError) {
	return h.query(ctx,
		`SELECT id, name, ingredients, steps, prep_time_minutes, user_id, image_url, created_at FROM `+h.tableName+` WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

func (h *handler) query(ctx context.Context, q string, args ...any) ([]*entity.Recipe, *types.CommonError) {
	var rows []row
	if errQuery := h.db.SelectContext(ctx, &rows, q, args...); errQuery != nil {
		log.Err(errQuery).Msgf("Select recipe query failed")
		return nil, repositoryFailed("Failed to query recipes")
	}

	result := make([]*entity.Recipe, 0, len(rows))
	for _, r := range rows {
		parsed, err := r.toEntity()
		if err != nil {
			log.Err(err).Msgf("Failed to parse recipe row %v", r.Id)
			continue
		}
		result = append(result, parsed)
	}
	return result, nil
}

func (h *handler) GetByID(ctx context.Context, id string) (*entity.Recipe, *types.CommonError) {
	var r row
	errQuery := h.db.GetContext(ctx, &r,
		`SELECT id, name, ingredients, steps, prep_time_minutes, user_id, image_url, created_at FROM `+h.tableName+` WHERE id = $1`,
		id)
	if errQuery != nil {
		if errors.Is(errQuery, sql.ErrNoRows) {
			return nil, notFound()
		}
		log.Err(errQuery).Msgf("Get recipe query failed")
		return nil, repositoryFailed("Failed to query recipe")
	}

	parsed, err := r.toEntity()
	if err != nil {
		log.Err(err).Msgf("Failed to parse recipe row %v", r.Id)
		return nil, repositoryFailed("Failed to parse recipe")
	}
	return parsed, nil
}

func (h *handler) Update(ctx context.Context, data *entity.Recipe) *types.CommonError {
	ingredients, errMarshal := json.Marshal(data.Ingredients)
	if errMarshal != nil {
		return repositoryFailed("Failed to serialize ingredients")
	}
	steps, errMarshal := json.Marshal(data.Steps)
	if errMarshal != nil {
		return repositoryFailed("Failed to serialize steps")
	}

	result, errExec := h.db.ExecContext(ctx,
		`UPDATE `+h.tableName+` SET name = $1, ingredients = $2, steps = $3, prep_time_minutes = $4, image_url = $5 WHERE id = $6`,
		data.Name, ingredients, steps, data.PrepTimeMinutes, data.ImageUrl, data.Id,
	)
	if errExec != nil {
		log.Err(errExec).Msgf("Update recipe query failed")
		return repositoryFailed("Failed to update recipe")
	}

	return checkAffected(result)
}

func (h *handler) Delete(ctx context.Context, id string) *types.CommonError {
	result, errExec := h.db.ExecContext(ctx, `DELETE FROM `+h.tableName+` WHERE id = $1`, id)
	if errExec != nil {
		log.Err(errExec).Msgf("Delete recipe query failed")
		return repositoryFailed("Failed to delete recipe")
	}

	return checkAffected(result)
}

func checkAffected(result sql.Result) *types.CommonError {
	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Msgf("Failed to read affected rows")
		return repositoryFailed("Failed to read query result")
	}
	if affected == 0 {
		return notFound()
	}
	return nil
}

func notFound() *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusNotFound, Code: "NOT_FOUND", Message: "Recipe not found"},
		},
	}
}

func repositoryFailed(message string) *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusInternalServerError, Code: "REPOSITORY_FAILED", Message: message},
		},
	}
}
