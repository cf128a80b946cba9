package handler

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dapur-gratis/resep-api/lib/push"
	notificationrepo "github.com/dapur-gratis/resep-api/repository/notification"
	"github.com/dapur-gratis/resep-api/repository/user"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/notification"
)

const (
	// FCM caps multicast at 500 recipients; we keep the same batch
	// size so one slow batch never stalls the whole broadcast.
	batchSize = 500

	historyLimit = 20

	sendConcurrency = 16
)

type handler struct {
	messenger        push.Messenger
	userRepo         user.Repository
	notificationRepo notificationrepo.Repository
}

var _ notification.Usecase = &handler{}

func New(
	messenger push.Messenger,
	userRepo user.Repository,
	notificationRepo notificationrepo.Repository,
) *handler {
	return &handler{
		messenger:        messenger,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

func (h *handler) Broadcast(ctx context.Context, sentBy, title, message string) (*entity.BroadcastReport, *types.CommonError) {
	data := &entity.Notification{Title: title, Message: message, SentBy: sentBy}
	if errUC := data.Validate(); errUC != nil {
		return nil, errUC
	}

	tokens, errUC := h.userRepo.ListFCMTokens(ctx)
	if errUC != nil {
		return nil, errUC
	}

	var sent, failed int64
	for start := 0; start < len(tokens); start += batchSize {
		end := start + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(sendConcurrency)
		for _, token := range tokens[start:end] {
			token := token
			g.Go(func() error {
				err := h.messenger.Send(gctx, push.Message{
					Token: token,
					Title: title,
					Body:  message,
				})
				if err != nil {
					// A cancelled caller aborts the whole broadcast;
					// a stale token is expected, count and move on
					if gctx.Err() != nil {
						return gctx.Err()
					}
					log.Warn().Msgf("Broadcast delivery failed: %v", err)
					atomic.AddInt64(&failed, 1)
					return nil
				}
				atomic.AddInt64(&sent, 1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Err(err).Msgf("Broadcast aborted after %v deliveries", atomic.LoadInt64(&sent))
			return nil, &types.CommonError{
				Errors: []types.Error{
					{HTTPCode: http.StatusInternalServerError, Code: "BROADCAST_ABORTED", Message: "Broadcast aborted: " + err.Error()},
				},
			}
		}
	}

	if _, errUC := h.notificationRepo.Insert(ctx, data); errUC != nil {
		// Messages already left the building; history is secondary
		log.Error().Msgf("Failed to record broadcast history: %v", errUC.Top().Message)
	}

	return &entity.BroadcastReport{Sent: int(sent), Failed: int(failed)}, nil
}

func (h *handler) SendToDevice(ctx context.Context, userID, title, message string) *types.CommonError {
	data := &entity.Notification{Title: title, Message: message}
	if errUC := data.Validate(); errUC != nil {
		return errUC
	}

	userData, errUC := h.userRepo.GetByID(ctx, userID)
	if errUC != nil {
		return errUC
	}
	if userData.FcmToken == "" {
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusNotFound, Code: "NO_DEVICE_TOKEN", Message: "User has no registered device"},
			},
		}
	}

	err := h.messenger.Send(ctx, push.Message{
		Token: userData.FcmToken,
		Title: title,
		Body:  message,
	})
	if err != nil {
		log.Err(err).Msgf("Failed to deliver message to user '%v'", userID)
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusBadGateway, Code: "DELIVERY_FAILED", Message: "Cannot deliver push message"},
			},
		}
	}
	return nil
}

func (h *handler) History(ctx context.Context) ([]*entity.Notification, *types.CommonError) {
	return h.notificationRepo.History(ctx, historyLimit)
}
