package postgres

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/dapur-gratis/resep-api/repository/notification"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

var _ notification.Repository = &handler{}

type handler struct {
	db            *sqlx.DB
	tableName     string
	userTableName string
}

func New(db *sqlx.DB, tableName string, userTableName string) *handler {
	return &handler{
		db:            db,
		tableName:     tableName,
		userTableName: userTableName,
	}
}

type row struct {
	Id       string    `db:"id"`
	Title    string    `db:"title"`
	Message  string    `db:"message"`
	SentBy   string    `db:"sent_by"`
	Username string    `db:"username"`
	SentAt   time.Time `db:"sent_at"`
}

func (h *handler) Insert(ctx context.Context, data *entity.Notification) (*entity.Notification, *types.CommonError) {
	if data.Id == "" {
		data.Id = uuid.NewString()
	}
	now := time.Now()
	data.SentAt = now.Format(time.RFC3339)

	_, errExec := h.db.ExecContext(ctx,
		`INSERT INTO `+h.tableName+` (id, title, message, sent_by, sent_at) VALUES ($1, $2, $3, $4, $5)`,
		data.Id, data.Title, data.Message, data.SentBy, now,
	)
	if errExec != nil {
		log.Err(errExec).Msgf("Insert notification query failed")
		return nil, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusInternalServerError, Code: "REPOSITORY_FAILED", Message: "Failed to store notification history"},
			},
		}
	}

	return data, nil
}

func (h *handler) History(ctx context.Context, limit int) ([]*entity.Notification, *types.CommonError) {
	var rows []row
	errQuery := h.db.SelectContext(ctx, &rows,
		`SELECT n.id, n.title, n.message, n.sent_by, COALESCE(u.username, '') AS username, n.sent_at
		 FROM `+h.tableName+` n
		 LEFT JOIN `+h.userTableName+` u ON n.sent_by = u.id
		 ORDER BY n.sent_at DESC
		 LIMIT $1`,
		limit,
	)
	if errQuery != nil {
		log.Err(errQuery).Msgf("Select notification history query failed")
		return nil, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusInternalServerError, Code: "REPOSITORY_FAILED", Message: "Failed to query notification history"},
			},
		}
	}

	result := make([]*entity.Notification, 0, len(rows))
	for _, r := range rows {
		result = append(result, &entity.Notification{
			Id:       r.Id,
			Title:    r.Title,
			Message:  r.Message,
			SentBy:   r.SentBy,
			Username: r.Username,
			SentAt:   r.SentAt.Format(time.RFC3339),
		})
	}
	return result, nil
}
