package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
	"github.com/heartmarshall/toolhub-backend/pkg/ctxutil"
)

type tokenVerifier interface {
	Verify(raw string) (uuid.UUID, error)
}

type actorResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Auth resolves a bearer token to an actor and stores it in the
// context. Requests without a token pass through anonymous; the role
// is re-read from storage on every request, so a token never carries a
// stale privilege level. Individual handlers decide whether anonymous
// access is acceptable.
func Auth(tokens tokenVerifier, users actorResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := ctxutil.WithActor(r.Context(), domain.ActorFromUser(*user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
