package userapi

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/dapur-gratis/resep-api/delivery/helper"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/attachment"
	"github.com/dapur-gratis/resep-api/usecase/user"
)

const maximumRequestLength = 8 << 20

type service struct {
	uc user.Usecase
}

func New(uc user.Usecase) *service {
	return &service{uc: uc}
}

type updateRequest struct {
	// Email is accepted only so a change attempt can be rejected
	// explicitly; the address is immutable after registration.
	Email    string `json:"email,omitempty"`
	Username string `json:"username"`

	ImageData   string `json:"image_data,omitempty"`
	RemoveImage bool   `json:"remove_image,omitempty"`
}

func (s *service) GetAll(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	result, errUC := s.uc.GetAll(r.Context())
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}
	helper.WriteSuccess(w, result)
}

func (s *service) GetOne(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	result, errUC := s.uc.GetByID(r.Context(), p.ByName("id"))
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}
	helper.WriteSuccess(w, result)
}

func (s *service) Put(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	session, ok := helper.SessionFromContext(r.Context())
	if !ok {
		helper.SetError(w, unauthorized())
		return
	}

	id := p.ByName("id")
	if id != session.UserId && !session.IsAdmin {
		helper.SetError(w, forbidden())
		return
	}

	current, errUC := s.uc.GetByID(r.Context(), id)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	document, upload, errUC := helper.ReadPayload(w, r, maximumRequestLength)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	var request updateRequest
	if err := json.Unmarshal(document, &request); err != nil {
		helper.SetError(w, badRequest("Failed to parse request body"))
		return
	}

	if request.Email != "" && request.Email != current.Email {
		helper.SetError(w, badRequest("Email cannot be changed"))
		return
	}

	intent, errUC := attachment.ResolveIntent(upload, request.ImageData, request.RemoveImage)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	data := &entity.User{
		Id:       id,
		Email:    current.Email,
		Username: request.Username,
	}

	result, errUC := s.uc.Update(r.Context(), data, intent)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	helper.WriteSuccess(w, result)
}

func (s *service) Delete(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	session, ok := helper.SessionFromContext(r.Context())
	if !ok {
		helper.SetError(w, unauthorized())
		return
	}

	id := p.ByName("id")
	if id != session.UserId && !session.IsAdmin {
		helper.SetError(w, forbidden())
		return
	}

	current, errUC := s.uc.GetByID(r.Context(), id)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	if errUC := s.uc.Delete(r.Context(), id); errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	helper.WriteSuccess(w, current)
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

func forbidden() *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusForbidden, Code: "FORBIDDEN", Message: "You can only modify your own profile"},
		},
	}
}
