// Package middleware adapts the engine's token checks to net/http.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	goOrg "github.com/MrEthical07/goOrg"
	"github.com/MrEthical07/goOrg/jwt"
	"github.com/MrEthical07/goOrg/store"
)

// ForbiddenMessage is the fixed body of every role-gate rejection. It
// never names the missing role.
const ForbiddenMessage = "You do not have the authorization and permissions to access this resource."

type claimsContextKey struct{}

// ClaimsFromContext returns the verified claims attached by Guard.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*jwt.Claims)
	return claims, ok
}

// Guard authenticates every request with the engine, renewing expired
// tokens transparently, and attaches the claims to the request context.
// Requests without a bearer token get 401; tokens that fail
// verification for any reason other than expiry get 500.
func Guard(engine *goOrg.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				writeMessage(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			claims, err := engine.Authenticate(r.Context(), token)
			if err != nil {
				writeMessage(w, http.StatusInternalServerError, "Authentication failed")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the token's role claim. It verifies the
// token independently of Guard and never renews: an expired token fails
// here even though Guard would have accepted it.
func RequireRole(engine *goOrg.Engine, roles ...store.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				writeMessage(w, http.StatusUnauthorized, "Not logged in")
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Not logged in")
				return
			}

			_, err := engine.AuthorizeRole(r.Context(), token, roles...)
			if err != nil {
				if errors.Is(err, goOrg.ErrForbidden) {
					writeMessage(w, http.StatusForbidden, ForbiddenMessage)
					return
				}
				writeMessage(w, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
