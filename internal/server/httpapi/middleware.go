package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/auth"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/services"
)

type ctxKey int

const requesterKey ctxKey = 0

// authMiddleware extracts the session token and attaches the caller
// identity to the request context. Requests without a usable token pass
// through anonymously; the services decide what needs a signed-in caller.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(common.AccessTokenHeaderName)
		token = strings.TrimPrefix(token, "Bearer ")

		if token != "" {
			userID, verified, err := auth.ParseToken(token, s.secretKey)
			if err != nil {
				s.logger.Debug(r.Context(), "ignoring invalid token", "error", err)
			} else {
				ctx := context.WithValue(r.Context(), requesterKey, services.Requester{
					UserID:   userID,
					Verified: verified,
				})
				r = r.WithContext(ctx)
			}
		}

		next.ServeHTTP(w, r)
	})
}

// requesterFrom returns the caller identity, zero when unauthenticated.
func requesterFrom(ctx context.Context) services.Requester {
	if req, ok := ctx.Value(requesterKey).(services.Requester); ok {
		return req
	}
	return services.Requester{}
}
