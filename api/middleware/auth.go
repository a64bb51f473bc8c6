package middleware

import (
	"net/http"
	"strings"

	"github.com/hakimzulkifli/pegawai-backend/api/responses"
	pkgAuth "github.com/hakimzulkifli/pegawai-backend/pkg/auth"
	"github.com/hakimzulkifli/pegawai-backend/pkg/config"
	pkgerrors "github.com/hakimzulkifli/pegawai-backend/pkg/errors"
	"github.com/hakimzulkifli/pegawai-backend/pkg/logger"
)

// SessionChecker reports whether a token id still belongs to the live session.
type SessionChecker interface {
	HasSession(jti string) bool
}

// Auth validates a bearer token, confirms its session is still live, and
// seeds the request context with the actor's identity. A logged-out session
// rejects tokens that are otherwise cryptographically valid.
func Auth(cfg config.JWTConfig, checker SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if checker != nil && !checker.HasSession(claims.ID) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
				return
			}

			ctx := WithActor(r.Context(), claims.Nokp, claims.Nama)
			if logg != nil {
				ctx = logg.WithActor(ctx, claims.Nokp)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
