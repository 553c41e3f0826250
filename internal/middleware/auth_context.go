package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"pet-adoption-match/internal/platform/httpjson"
	"pet-adoption-match/internal/ports/auth"
)

type ctxKey string

const (
	claimsKey    ctxKey = "claims"
	principalKey ctxKey = "principal"
)

// AuthContext:
// - Si viene Bearer token => intenta Verify() y setea claims.
// - En upgrades WebSocket acepta ?token= (el browser no manda headers).
// - Si no hay claims, el request sigue igual; RequireUser decide el 401.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" && websocket.IsWebSocketUpgrade(r) {
				token = strings.TrimSpace(r.URL.Query().Get("token"))
			}
			if token == "" || verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser corta con 401 si no hay claims válidas o si el usuario del
// token ya no existe. Deja el Principal en el contexto.
func RequireUser(lookup auth.PrincipalLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				httpjson.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			p, err := lookup.PrincipalOf(r.Context(), claims.UserID)
			if err != nil {
				httpjson.Error(w, http.StatusUnauthorized, "user not found")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func GetPrincipal(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	if !ok || p.ID == "" {
		return auth.Principal{}, false
	}
	return p, true
}

// WithPrincipal se usa en tests de handlers sin pasar por el token.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
