package entity

import (
	"net/http"

	types "github.com/dapur-gratis/resep-api/types/http"
)

type Recipe struct {
	Id              string   `json:"id,omitempty"`
	Name            string   `json:"name,omitempty"`
	Ingredients     []string `json:"ingredients,omitempty"`
	Steps           []string `json:"steps,omitempty"`
	PrepTimeMinutes int32    `json:"prep_time_minutes,omitempty"`
	UserId          string   `json:"user_id,omitempty"`
	ImageUrl        string   `json:"image_url,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

func (c *Recipe) Validate() *types.CommonError {
	var errs []types.Error
	if c.Name == "" {
		errs = append(errs, types.Error{
			HTTPCode: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "Recipe name cannot be empty",
		})
	}
	if len(c.Ingredients) == 0 {
		errs = append(errs, types.Error{
			HTTPCode: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "Recipe must have at least one ingredient",
		})
	}
	if len(c.Steps) == 0 {
		errs = append(errs, types.Error{
			HTTPCode: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "Recipe must have at least one step",
		})
	}
	if c.PrepTimeMinutes <= 0 {
		errs = append(errs, types.Error{
			HTTPCode: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "Preparation time must be positive",
		})
	}
	if len(errs) > 0 {
		return &types.CommonError{Errors: errs}
	}
	return nil
}
