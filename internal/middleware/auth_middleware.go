package middleware

import (
	"context"
	"net/http"
	"net/url"

	"blog/internal/entity"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "auth-session"
	LoginURL    = "/auth/login/"
)

type contextKey string

const actorKey contextKey = "actor"

// SessionMiddleware puts the actor stored in the session cookie into the request context.
// Requests without a valid session carry the anonymous actor.
func SessionMiddleware(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := entity.Anonymous

			// A cookie signed with another key is treated as no session at all.
			if session, err := store.Get(r, SessionName); err == nil {
				id, ok1 := session.Values["user_id"].(uint)
				username, ok2 := session.Values["username"].(string)
				if ok1 && ok2 {
					actor = entity.Actor{ID: id, Username: username}
				}
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// AuthMiddleware lets only logged in actors through. Everyone else is sent to the
// login page with the original request URI in "next".
func AuthMiddleware(next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ActorFrom(r.Context()).IsAuthenticated() {
			http.Redirect(w, r, LoginRedirect(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func LoginRedirect(next string) string {
	return LoginURL + "?next=" + url.QueryEscape(next)
}

func WithActor(ctx context.Context, actor entity.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFrom(ctx context.Context) entity.Actor {
	if actor, ok := ctx.Value(actorKey).(entity.Actor); ok {
		return actor
	}
	return entity.Anonymous
}
