package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// OwnerTokenType is the "type" claim every accepted token must carry.
const OwnerTokenType = "owner"

type Service interface {
	GenerateOwnerToken(subject string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

// JWTService signs and verifies the single owner's bearer tokens.
type JWTService struct {
	tokenExpirationTime string
	tokenAuth           *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, tokenExpirationTime string) Service {
	return &JWTService{
		tokenExpirationTime: tokenExpirationTime,
		tokenAuth:           jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateOwnerToken(subject string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.tokenExpirationTime)
	if err != nil {
		return "", 0, fmt.Errorf("invalid token expiration %q: %w", j.tokenExpirationTime, err)
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":  subject,
		"type": OwnerTokenType,
		"iat":  time.Now().Unix(),
		"exp":  expiresAt,
	})
	return tokenString, expiresAt, err
}
