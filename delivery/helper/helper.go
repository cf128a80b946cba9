package helper

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"github.com/dapur-gratis/resep-api/types/entity"
	types "github.com/dapur-gratis/resep-api/types/http"
	"github.com/dapur-gratis/resep-api/usecase/auth"
)

type contextKey int

const sessionKey contextKey = iota

// SessionFromContext returns the verified session placed by Authenticate.
func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*auth.Session)
	return session, ok
}

// ContextWithSession attaches a verified session to the context.
func ContextWithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// Authenticate verifies the bearer token and injects the session into the
// request context before calling next.
func Authenticate(uc auth.Usecase, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		session, errUC := ParseAuthorizationToken(r.Context(), uc, r.Header.Get("Authorization"))
		if errUC != nil {
			SetError(w, errUC)
			return
		}
		r = r.WithContext(ContextWithSession(r.Context(), session))
		next(w, r, p)
	}
}

// RequireAdmin gates the handler behind an admin session. Must sit inside
// Authenticate.
func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		session, ok := SessionFromContext(r.Context())
		if !ok || !session.IsAdmin {
			SetError(w, &types.CommonError{
				Errors: []types.Error{
					{HTTPCode: http.StatusForbidden, Code: "FORBIDDEN", Message: "Administrator access required"},
				},
			})
			return
		}
		next(w, r, p)
	}
}

func ParseAuthorizationToken(ctx context.Context, uc auth.Usecase, authorizationHeader string) (*auth.Session, *types.CommonError) {
	token := strings.Split(authorizationHeader, " ")
	if len(token) < 2 || !strings.EqualFold(token[0], "Bearer") {
		return nil, &types.CommonError{
			Errors: []types.Error{
				{
					HTTPCode: http.StatusUnauthorized,
					Code:     "INVALID_OR_EMPTY_AUTHORIZATION",
					Message:  "Authorization header is not valid",
				},
			},
		}
	}

	return uc.Verify(ctx, token[1])
}

func WriteSuccess(w http.ResponseWriter, result any) {
	payload, err := json.Marshal(&types.CommonResponse{
		Success: result,
	})
	if err != nil {
		log.Err(err).Msgf("Failed to serialize response")
		SetError(w, &types.CommonError{
			Errors: []types.Error{
				{HTTPCode: http.StatusInternalServerError, Code: "SERVER_ERROR", Message: "Failed to serialize response"},
			},
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func SetError(w http.ResponseWriter, errUC *types.CommonError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errUC.Top().HTTPCode)
	w.Write(types.SerializeError(errUC))
}

// ReadPayload reads a mutation body in either of the two shapes clients
// send: multipart/form-data with the JSON document under "data" and the
// image file under "image", or a plain JSON body (optionally carrying an
// inline data URL, which the caller resolves). Returns the JSON document
// and the file part, if any.
func ReadPayload(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, *entity.PendingUpload, *types.CommonError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, nil, payloadTooLarge()
		}
		return payload, nil, nil
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, payloadTooLarge()
	}

	document := []byte(r.FormValue("data"))

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return document, nil, nil
	}
	if err != nil {
		return nil, nil, badRequest("Cannot read 'image' file part")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, payloadTooLarge()
	}

	return document, &entity.PendingUpload{
		Content:      content,
		ContentType:  header.Header.Get("Content-Type"),
		OriginalName: header.Filename,
	}, nil
}

func badRequest(message string) *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message},
		},
	}
}

func payloadTooLarge() *types.CommonError {
	return &types.CommonError{
		Errors: []types.Error{
			{HTTPCode: http.StatusRequestEntityTooLarge, Code: "VALIDATION_FAILED", Message: "Request body is too large"},
		},
	}
}
