package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/avolkova/glucolog/internal/common"
	"github.com/avolkova/glucolog/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// withAuth checks the bearer access token and stores the user ID in the
// request context. An expired token gets a distinct body so clients know
// to refresh instead of re-authenticating.
func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "token expired")
			} else {
				writeError(w, http.StatusUnauthorized, "invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
