package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/NorteEngenharia/api-prestador/internal/escopo"
)

type ctxKey string

const (
	CtxUsuarioID ctxKey = "usuarioID"
	CtxRole      ctxKey = "role"
)

func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ValidarToken(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUsuarioID, claims.UserID)
		ctx = context.WithValue(ctx, CtxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(CtxRole).(string)
		if role != escopo.RoleAdmin {
			http.Error(w, "Forbidden (admin only)", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PerfilDaRequisicao lê a identidade injetada pelo middleware de autenticação.
func PerfilDaRequisicao(r *http.Request) escopo.Perfil {
	id, _ := r.Context().Value(CtxUsuarioID).(uint)
	role, _ := r.Context().Value(CtxRole).(string)
	return escopo.Perfil{ID: id, Role: role}
}
