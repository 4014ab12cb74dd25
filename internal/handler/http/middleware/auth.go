package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
)

// AuthRequired runs after jwtauth.Verifier and only lets owner tokens through.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.HandleError(w, tokenError(err))
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.OwnerTokenType || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// tokenError turns a verifier failure into the auth domain error.
func tokenError(err error) error {
	if errors.Is(err, jwtauth.ErrExpired) {
		return auth.ErrTokenExpired
	}
	return fmt.Errorf("%w: %s", auth.ErrInvalidToken, err.Error())
}
