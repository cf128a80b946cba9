package attachment

import (
	"encoding/base64"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
)

const DefaultMaxSizeBytes = 5 << 20 // 5 MiB

func DefaultAllowedTypes() []string {
	return []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}
}

// Policy validates an upload before any storage interaction.
// Pure, no network or storage access.
type Policy struct {
	AllowedTypes []string
	MaxSizeBytes int64
}

func DefaultPolicy() Policy {
	return Policy{
		AllowedTypes: DefaultAllowedTypes(),
		MaxSizeBytes: DefaultMaxSizeBytes,
	}
}

func (p Policy) Validate(contentType string, sizeBytes int64) *types.CommonError {
	if !p.typeAllowed(contentType) {
		return &types.CommonError{
			Errors: []types.Error{
				{
					HTTPCode: http.StatusBadRequest,
					Code:     "VALIDATION_FAILED",
					Message:  "Content type '" + contentType + "' is not allowed. Valid types: " + strings.Join(p.AllowedTypes, ", "),
				},
			},
		}
	}
	if sizeBytes > p.MaxSizeBytes {
		return &types.CommonError{
			Errors: []types.Error{
				{
					HTTPCode: http.StatusRequestEntityTooLarge,
					Code:     "VALIDATION_FAILED",
					Message:  "Image is too large. Maximum size: " + strconv.FormatInt(p.MaxSizeBytes/1024/1024, 10) + "MB",
				},
			},
		}
	}
	return nil
}

func (p Policy) typeAllowed(contentType string) bool {
	for _, t := range p.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

var dataURLPattern = regexp.MustCompile(`^data:([A-Za-z0-9.+/-]+);base64,(.+)$`)

// ParseDataURL turns an inline `data:image/png;base64,...` payload into a
// PendingUpload. A missing scheme tag, missing encoding marker or an
// undecodable body is reported as MALFORMED_IMAGE, before any type or
// size policy runs.
func ParseDataURL(in string) (*entity.PendingUpload, *types.CommonError) {
	matches := dataURLPattern.FindStringSubmatch(strings.TrimSpace(in))
	if len(matches) != 3 {
		return nil, malformedImage("Image must be of the form data:image/<type>;base64,<data>")
	}

	contentType := matches[1]
	content, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return nil, malformedImage("Failed to decode base64 image data")
	}

	ext := contentType
	if idx := strings.LastIndex(contentType, "/"); idx >= 0 {
		ext = contentType[idx+1:]
	}

	return &entity.PendingUpload{
		Content:      content,
		ContentType:  contentType,
		OriginalName: "inline." + ext,
	}, nil
}

func malformedImage(message string) *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusBadRequest, Code: "MALFORMED_IMAGE", Message: message},
		},
	}
}

// ResolveIntent normalizes the three ways a mutation can signal an image
// change. A real uploaded payload wins over an inline data URL, which wins
// over the removal flag; no signal at all keeps the current image.
// A malformed inline payload is an error, never a silent keep.
func ResolveIntent(upload *entity.PendingUpload, inlineDataURL string, remove bool) (entity.ImageIntent, *types.CommonError) {
	if upload != nil {
		return entity.ReplaceImage(upload), nil
	}
	if inlineDataURL != "" {
		parsed, errUC := ParseDataURL(inlineDataURL)
		if errUC != nil {
			return entity.KeepImage(), errUC
		}
		return entity.ReplaceImage(parsed), nil
	}
	if remove {
		return entity.RemoveImage(), nil
	}
	return entity.KeepImage(), nil
}
