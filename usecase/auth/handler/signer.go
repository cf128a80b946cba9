package handler

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/dapur-gratis/resep-api/usecase/auth"
)

var (
	ErrInvalidSigningMethod  = errors.New("invalid signing method")
	ErrKeyIdentifierNotFound = errors.New("key identifier not found")
	ErrInvalidToken          = errors.New("invalid token")
	ErrInvalidClaim          = errors.New("invalid claim")
)

const kidHeader = "kid"

type customClaim struct {
	jwt.StandardClaims
	UserId  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

// simpleSigner signs and verifies session tokens with symmetric keys.
// The kid header selects the key, allowing rotation without invalidating
// tokens signed by the previous key.
type simpleSigner struct {
	issuer   string
	hmacKeys map[string]string
	keyID    string
}

func newSigner(issuer string, hmacKeys map[string]string, keyID string) *simpleSigner {
	return &simpleSigner{
		issuer:   issuer,
		hmacKeys: hmacKeys,
		keyID:    keyID,
	}
}

func (s *simpleSigner) Sign(session auth.Session, expire time.Time) (string, error) {
	key, ok := s.hmacKeys[s.keyID]
	if !ok {
		return "", ErrKeyIdentifierNotFound
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, customClaim{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expire.Unix(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    s.issuer,
		},
		UserId:  session.UserId,
		IsAdmin: session.IsAdmin,
	})
	token.Header[kidHeader] = s.keyID

	return token.SignedString([]byte(key))
}

func (s *simpleSigner) Verify(tokenString string) (*auth.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &customClaim{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		kid, ok := t.Header[kidHeader].(string)
		if !ok || kid == "" {
			return nil, ErrKeyIdentifierNotFound
		}
		key, ok := s.hmacKeys[kid]
		if !ok {
			return nil, ErrKeyIdentifierNotFound
		}
		return []byte(key), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claim, ok := token.Claims.(*customClaim)
	if !ok || claim.UserId == "" {
		return nil, ErrInvalidClaim
	}

	return &auth.Session{UserId: claim.UserId, IsAdmin: claim.IsAdmin}, nil
}
