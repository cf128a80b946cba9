package recipeapi

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/dapur-gratis/resep-api/delivery/helper"
	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/attachment"
	"github.com/dapur-gratis/resep-api/usecase/recipe"
)

// Base64 inflates a 5 MiB image by a third; leave headroom for the
// JSON document around it.
const maximumRequestLength = 8 << 20

type service struct {
	uc recipe.Usecase
}

func New(uc recipe.Usecase) *service {
	return &service{uc: uc}
}

type mutationRequest struct {
	Name            string   `json:"name"`
	Ingredients     []string `json:"ingredients"`
	Steps           []string `json:"steps"`
	PrepTimeMinutes int32    `json:"prep_time_minutes"`

	// ImageData carries an inline data URL; RemoveImage drops the
	// current image. A multipart file part wins over both.
	ImageData   string `json:"image_data,omitempty"`
	RemoveImage bool   `json:"remove_image,omitempty"`
}

func (s *service) Post(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	session, ok := helper.SessionFromContext(r.Context())
	if !ok {
		helper.SetError(w, unauthorized())
		return
	}

	document, upload, errUC := helper.ReadPayload(w, r, maximumRequestLength)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	var request mutationRequest
	if err := json.Unmarshal(document, &request); err != nil {
		helper.SetError(w, badRequest("Failed to parse request body"))
		return
	}

	intent, errUC := attachment.ResolveIntent(upload, request.ImageData, false)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	data := &entity.Recipe{
		Name:            request.Name,
		Ingredients:     request.Ingredients,
		Steps:           request.Steps,
		PrepTimeMinutes: request.PrepTimeMinutes,
		UserId:          session.UserId,
	}

	result, errUC := s.uc.Create(r.Context(), data, intent.Upload)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	helper.WriteSuccess(w, result)
}

func (s *service) GetAll(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	result, errUC := s.uc.GetAll(r.Context())
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}
	helper.WriteSuccess(w, result)
}

func (s *service) GetMine(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	session, ok := helper.SessionFromContext(r.Context())
	if !ok {
		helper.SetError(w, unauthorized())
		return
	}

	result, errUC := s.uc.GetByUser(r.Context(), session.UserId)
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
	current, errUC := s.uc.GetByID(r.Context(), id)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}
	if current.UserId != session.UserId && !session.IsAdmin {
		helper.SetError(w, forbidden())
		return
	}

	document, upload, errUC := helper.ReadPayload(w, r, maximumRequestLength)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	var request mutationRequest
	if err := json.Unmarshal(document, &request); err != nil {
		helper.SetError(w, badRequest("Failed to parse request body"))
		return
	}

	intent, errUC := attachment.ResolveIntent(upload, request.ImageData, request.RemoveImage)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}

	data := &entity.Recipe{
		Id:              id,
		Name:            request.Name,
		Ingredients:     request.Ingredients,
		Steps:           request.Steps,
		PrepTimeMinutes: request.PrepTimeMinutes,
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
	current, errUC := s.uc.GetByID(r.Context(), id)
	if errUC != nil {
		helper.SetError(w, errUC)
		return
	}
	if current.UserId != session.UserId && !session.IsAdmin {
		helper.SetError(w, forbidden())
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
			{HTTPCode: http.StatusForbidden, Code: "FORBIDDEN", Message: "You can only modify your own recipe"},
		},
	}
}
