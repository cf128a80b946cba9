package notificationapi

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/dapur-gratis/resep-api/delivery/helper"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/notification"
	"github.com/dapur-gratis/resep-api/usecase/user"
)

const maximumRequestLength = 1 << 20

type service struct {
	uc     notification.Usecase
	userUC user.Usecase
}

func New(uc notification.Usecase, userUC user.Usecase) *service {
	return &service{
		uc:     uc,
		userUC: userUC,
	}
}

type registerTokenRequest struct {
	Token string `json:"token"`
}

type broadcastRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type deviceRequest struct {
	UserId  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// RegisterToken stores the caller's device token for future broadcasts.
func (s *service) RegisterToken(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	session, ok := helper.SessionFromContext(r.Context())
	if !ok {
		helper.SetError(w, unauthorized())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maximumRequestLength)

	var request registerTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helper.SetError(w, badRequest("Failed to parse request body"))
		return
	}
	if request.Token == "" {
		helper.SetError(w, badRequest("'token' is required"))
		return
	}

	if errUC := s.userUC.RegisterFCMToken(r.Context(), session.UserId, request.Token); errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	helper.WriteSuccess(w, &registerTokenRequest{Token: request.Token})
}

func (s *service) Broadcast(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	session, ok := helper.SessionFromContext(r.Context())
	if !ok {
		helper.SetError(w, unauthorized())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maximumRequestLength)

	var request broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helper.SetError(w, badRequest("Failed to parse request body"))
		return
	}

	report, errUC := s.uc.Broadcast(r.Context(), session.UserId, request.Title, request.Message)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	helper.WriteSuccess(w, report)
}

func (s *service) SendToDevice(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, maximumRequestLength)

	var request deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helper.SetError(w, badRequest("Failed to parse request body"))
		return
	}
	if request.UserId == "" {
		helper.SetError(w, badRequest("'user_id' is required"))
		return
	}

	if errUC := s.uc.SendToDevice(r.Context(), request.UserId, request.Title, request.Message); errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	helper.WriteSuccess(w, &request)
}

func (s *service) History(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	result, errUC := s.uc.History(r.Context())
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}
	helper.WriteSuccess(w, result)
}

func badRequest(message string) *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message},
		},
	}
}

func unauthorized() *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Sign in required"},
		},
	}
}
