package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dan9191/installment-service/internal/service"
	"github.com/Dan9191/installment-service/internal/utils"
	"github.com/gorilla/mux"
)

// Authenticator validates bearer tokens. *service.Service satisfies it.
type Authenticator interface {
	Authenticate(token string) (*utils.Claims, error)
}

// AuthMiddleware rejects requests without a valid JWT and stores the
// operator's email on the request context
func AuthMiddleware(auth Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				unauthorized(w, "missing token")
				return
			}

			claims, err := auth.Authenticate(tokenStr)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := service.WithActor(r.Context(), claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken reads "Authorization: Bearer xxx", falling back to ?token=
// for links that cannot set headers
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return r.URL.Query().Get("token")
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
