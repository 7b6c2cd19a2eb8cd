package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/medas/intern-tracker-go/internal/domain/auth"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/handler/http/response"
	"github.com/medas/intern-tracker-go/internal/pkg/jwt"
)

type contextKey string

const actorKey contextKey = "actor"

// AuthRequired runs after jwtauth.Verifier. It rejects revoked or non-access
// tokens and stores the caller as a user.Actor on the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if raw := RawToken(r); raw == "" || jwtService.IsTokenRevoked(raw) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			actor, err := jwtService.ActorFromClaims(claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

// RawToken returns the bearer token the way jwtauth.Verifier found it.
func RawToken(r *http.Request) string {
	if t := jwtauth.TokenFromHeader(r); t != "" {
		return t
	}
	return jwtauth.TokenFromCookie(r)
}

func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (user.Actor, error) {
	actor, ok := ctx.Value(actorKey).(user.Actor)
	if !ok || actor.UserID == "" {
		return user.Actor{}, user.ErrActorMissing
	}
	return actor, nil
}
