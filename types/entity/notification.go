package entity

import (
	"net/http"

	types "github.com/dapur-gratis/resep-api/types/http"
)

// Notification is one broadcast entry kept in the sent history.
type Notification struct {
	Id       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message,omitempty"`
	SentBy   string `json:"sent_by,omitempty"`
	Username string `json:"username,omitempty"` // display name of the sender, join result
	SentAt   string `json:"sent_at,omitempty"`
}

func (c *Notification) Validate() *types.CommonError {
	if c.Title == "" || c.Message == "" {
		return &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "Title and message are required"},
			},
		}
	}
	return nil
}

type BroadcastReport struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
