package http

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const userIDKey ctxKey = iota

// requireAuth verifies the bearer token and threads the verified user ID into
// the request context. Core operations never see the token itself.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "token is missing"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, err := a.auth.VerifyToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: err.Error()})
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// verifiedUserID returns the user ID placed in the context by requireAuth.
func verifiedUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
