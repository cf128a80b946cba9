package postgres

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/dapur-gratis/resep-api/repository/password"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ password.Repository = &hashedPasswordHandler{}

type hashedPasswordHandler struct {
	db        *sqlx.DB
	tableName string
}

func NewHashed(db *sqlx.DB, tableName string) *hashedPasswordHandler {
	return &hashedPasswordHandler{
		db:        db,
		tableName: tableName,
	}
}

func (h *hashedPasswordHandler) Validate(ctx context.Context, userID, password string) (bool, *types.CommonError) {
	var passwordHash string
	err := h.db.GetContext(ctx, &passwordHash,
		`SELECT password_hash FROM `+h.tableName+` WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, &types.CommonError{
				Errors: []types.Error{
					{Code: "PASSWORD_NOT_CONFIGURED", HTTPCode: http.StatusBadRequest, Message: "Password is not yet configured"},
				},
			}
		}
		log.Err(err).Msgf("Get password query failed")
		return false, &types.CommonError{
			Errors: []types.Error{
				{Code: "FAILED_TO_GET_PASSWORD", HTTPCode: http.StatusFailedDependency, Message: "Failed to get password"},
			},
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return false, nil
	}

	return true, nil
}

func (h *hashedPasswordHandler) Set(ctx context.Context, userID, password string) *types.CommonError {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return &types.CommonError{
			Errors: []types.Error{
				{Code: "FAILED_TO_HASH_PASSWORD", HTTPCode: http.StatusInternalServerError, Message: "Failed to set password"},
			},
		}
	}

	_, err = h.db.ExecContext(ctx,
		`INSERT INTO `+h.tableName+` (user_id, password_hash) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET password_hash = $2`,
		userID, string(encrypted),
	)
	if err != nil {
		log.Err(err).Msgf("Set password query failed")
		return &types.CommonError{
			Errors: []types.Error{
				{Code: "FAILED_TO_SET_PASSWORD", HTTPCode: http.StatusFailedDependency, Message: "Failed to set password"},
			},
		}
	}

	return nil
}

func (h *hashedPasswordHandler) Delete(ctx context.Context, userID string) *types.CommonError {
	_, err := h.db.ExecContext(ctx, `DELETE FROM `+h.tableName+` WHERE user_id = $1`, userID)
	if err != nil {
		log.Err(err).Msgf("Delete password query failed")
		return &types.CommonError{
			Errors: []types.Error{
				{Code: "FAILED_TO_DELETE_PASSWORD", HTTPCode: http.StatusFailedDependency, Message: "Failed to delete password"},
			},
		}
	}
	return nil
}
