package authapi

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/dapur-gratis/resep-api/delivery/helper"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/attachment"
	"github.com/dapur-gratis/resep-api/usecase/auth"
	"github.com/dapur-gratis/resep-api/usecase/user"
)

const (
	loginRequestLength    = 1 << 20
	registerRequestLength = 8 << 20
)

type service struct {
	authUC auth.Usecase
	userUC user.Usecase
}

func New(authUC auth.Usecase, userUC user.Usecase) *service {
	return &service{
		authUC: authUC,
		userUC: userUC,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`

	ImageData string `json:"image_data,omitempty"`
}

func (s *service) Login(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, loginRequestLength)

	var request loginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helper.SetError(w, badRequest("Failed to parse request body"))
		return
	}

	token, userData, errUC := s.authUC.Login(r.Context(), request.Email, request.Password)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	helper.WriteSuccess(w, &loginResponse{Token: token, User: userData})
}

func (s *service) Register(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	document, upload, errUC := helper.ReadPayload(w, r, registerRequestLength)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	var request registerRequest
	if err := json.Unmarshal(document, &request); err != nil {
		helper.SetError(w, badRequest("Failed to parse request body"))
		return
	}

	intent, errUC := attachment.ResolveIntent(upload, request.ImageData, false)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	data := &entity.User{
		Email:    request.Email,
		Username: request.Username,
	}

	result, errUC := s.userUC.Register(r.Context(), data, request.Password, intent.Upload)
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
