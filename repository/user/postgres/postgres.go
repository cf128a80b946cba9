package postgres

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/dapur-gratis/resep-api/repository/user"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ user.Repository = &handler{}

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
	Id        string    `db:"id"`
	Email     string    `db:"email"`
	Username  string    `db:"username"`
	ImageUrl  string    `db:"image_url"`
	FcmToken  string    `db:"fcm_token"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toEntity() *entity.User {
	return &entity.User{
		Id:        r.Id,
		Email:     r.Email,
		Username:  r.Username,
		ImageUrl:  r.ImageUrl,
		FcmToken:  r.FcmToken,
		IsAdmin:   r.IsAdmin,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

const columns = `id, email, username, image_url, fcm_token, is_admin, created_at`

func (h *handler) Create(ctx context.Context, data *entity.User) (*entity.User, *types.CommonError) {
	if data.Id == "" {
		data.Id = uuid.NewString()
	}
	now := time.Now()
	data.CreatedAt = now.Format(time.RFC3339)

	_, errExec := h.db.ExecContext(ctx,
		`INSERT INTO `+h.tableName+` (id, email, username, image_url, fcm_token, is_admin, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		data.Id, data.Email, data.Username, data.ImageUrl, data.FcmToken, data.IsAdmin, now,
	)
	if errExec != nil {
		log.Err(errExec).Msgf("Insert user query failed")
		return nil, repositoryFailed("Failed to store user")
	}

	return data, nil
}

func (h *handler) GetAll(ctx context.Context) ([]*entity.User, *types.CommonError) {
	var rows []row
	if errQuery := h.db.SelectContext(ctx, &rows, `SELECT `+columns+` FROM `+h.tableName+` ORDER BY created_at`); errQuery != nil {
		log.Err(errQuery).Msgf("Select users query failed")
		return nil, repositoryFailed("Failed to query users")
	}

	result := make([]*entity.User, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toEntity())
	}
	return result, nil
}

func (h *handler) GetByID(ctx context.Context, id string) (*entity.User, *types.CommonError) {
	return h.getOne(ctx, `SELECT `+columns+` FROM `+h.tableName+` WHERE id = $1`, id)
}

func (h *handler) GetByEmail(ctx context.Context, email string) (*entity.User, *types.CommonError) {
	return h.getOne(ctx, `SELECT `+columns+` FROM `+h.tableName+` WHERE email = $1`, email)
}

func (h *handler) getOne(ctx context.Context, q string, arg any) (*entity.User, *types.CommonError) {
	var r row
	errQuery := h.db.GetContext(ctx, &r, q, arg)
	if errQuery != nil {
		if errors.Is(errQuery, sql.ErrNoRows) {
			return nil, notFound()
		}
		log.Err(errQuery).Msgf("Get user query failed")
		return nil, repositoryFailed("Failed to query user")
	}
	return r.toEntity(), nil
}

func (h *handler) Update(ctx context.Context, data *entity.User) *types.CommonError {
	result, errExec := h.db.ExecContext(ctx,
		`UPDATE `+h.tableName+` SET email = $1, username = $2, image_url = $3 WHERE id = $4`,
		data.Email, data.Username, data.ImageUrl, data.Id,
	)
	if errExec != nil {
		log.Err(errExec).Msgf("Update user query failed")
		return repositoryFailed("Failed to update user")
	}
	return checkAffected(result)
}

func (h *handler) Delete(ctx context.Context, id string) *types.CommonError {
	result, errExec := h.db.ExecContext(ctx, `DELETE FROM `+h.tableName+` WHERE id = $1`, id)
	if errExec != nil {
		log.Err(errExec).Msgf("Delete user query failed")
		return repositoryFailed("Failed to delete user")
	}
	return checkAffected(result)
}

func (h *handler) SetFCMToken(ctx context.Context, id string, token string) *types.CommonError {
	result, errExec := h.db.ExecContext(ctx,
		`UPDATE `+h.tableName+` SET fcm_token = $1 WHERE id = $2`, token, id)
	if errExec != nil {
		log.Err(errExec).Msgf("Update fcm token query failed")
		return repositoryFailed("Failed to register token")
	}
	return checkAffected(result)
}

func (h *handler) ListFCMTokens(ctx context.Context) ([]string, *types.CommonError) {
	var tokens []string
	errQuery := h.db.SelectContext(ctx, &tokens,
		`SELECT fcm_token FROM `+h.tableName+` WHERE fcm_token IS NOT NULL AND fcm_token != ''`)
	if errQuery != nil {
		log.Err(errQuery).Msgf("Select fcm tokens query failed")
		return nil, repositoryFailed("Failed to query device tokens")
	}
	return tokens, nil
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
			{HTTPCode: http.StatusNotFound, Code: "NOT_FOUND", Message: "User not found"},
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
