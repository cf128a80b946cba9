package entity

import (
	"net/http"
	"strings"

	types "github.com/dapur-gratis/resep-api/types/http"
)

type User struct {
	Id        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	ImageUrl  string `json:"image_url,omitempty"`
	FcmToken  string `json:"fcm_token,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (c *User) Validate() *types.CommonError {
	var errs []types.Error
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		errs = append(errs, types.Error{
			HTTPCode: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "A valid email is required",
		})
	}
	if c.Username == "" {
		errs = append(errs, types.Error{
			HTTPCode: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "Username cannot be empty",
		})
	}
	if len(errs) > 0 {
		return &types.CommonError{Errors: errs}
	}
	return nil
}
