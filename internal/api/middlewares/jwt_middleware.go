package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const (
	CtxUserID ctxKey = "user_id"
	CtxRol    ctxKey = "rol"
)

// JWT validates the Authorization header and attaches the user id and role
// to the request context. The secret is injected at wiring time.
func JWT(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "token ausente o inválido", http.StatusUnauthorized)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "token inválido", http.StatusUnauthorized)
				return
			}

			userID, ok := claims["sub"].(string)
			if !ok {
				http.Error(w, "claims inválidos", http.StatusUnauthorized)
				return
			}
			rol, _ := claims["rol"].(string)

			ctx := context.WithValue(r.Context(), CtxUserID, userID)
			ctx = context.WithValue(ctx, CtxRol, rol)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRol gates a route group to the given roles. admin always passes.
func RequireRol(roles ...string) func(http.Handler) http.Handler {
	permitidos := make(map[string]bool, len(roles)+1)
	permitidos["admin"] = true
	for _, r := range roles {
		permitidos[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rol, _ := r.Context().Value(CtxRol).(string)
			if !permitidos[rol] {
				http.Error(w, "permisos insuficientes", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
