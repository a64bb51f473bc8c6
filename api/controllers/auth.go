package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hakimzulkifli/pegawai-backend/api/responses"
	"github.com/hakimzulkifli/pegawai-backend/api/validators"
	"github.com/hakimzulkifli/pegawai-backend/internal/accounts"
	pkgAuth "github.com/hakimzulkifli/pegawai-backend/pkg/auth"
	"github.com/hakimzulkifli/pegawai-backend/pkg/config"
	pkgerrors "github.com/hakimzulkifli/pegawai-backend/pkg/errors"
	"github.com/hakimzulkifli/pegawai-backend/pkg/logger"
)

type accountRegistry interface {
	Register(ctx context.Context, req accounts.RegisterRequest) (*accounts.Account, error)
	Authenticate(ctx context.Context, nokp, password string) (*accounts.Account, error)
}

type sessionManager interface {
	Start(ctx context.Context, account accounts.Account, jti string) error
	End(ctx context.Context) error
	Current() *accounts.Account
}

type loginRequest struct {
	Nokp     string `json:"nokp" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string               `json:"access_token"`
	User        *accounts.AccountDTO `json:"user"`
}

func parseBearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}

// AuthRegister creates a new account. Registration does not sign the
// account in; the client logs in afterwards.
func AuthRegister(registry accountRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account registry unavailable"))
			return
		}

		var body accounts.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := registry.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*accounts.AccountDTO{
			"user": accounts.FromAccount(account),
		})
	}
}

// AuthLogin authenticates the credentials, starts the session, and hands
// back a bearer token bound to it.
func AuthLogin(registry accountRegistry, sessions sessionManager, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil || sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := registry.Authenticate(r.Context(), body.Nokp, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jti := uuid.NewString()
		token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
			Nokp: account.Nokp,
			Nama: account.Nama,
			JTI:  jti,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt"))
			return
		}

		if err := sessions.Start(r.Context(), *account, jti); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithActor(r.Context(), account.Nokp), "auth.login")
		}

		w.Header().Set("X-Pegawai-Token", token)
		responses.WriteSuccess(w, loginResponse{
			AccessToken: token,
			User:        accounts.FromAccount(account),
		})
	}
}

// AuthLogout ends the session tied to the presented token. Expired tokens
// can still log out; the session id is all that matters.
func AuthLogout(sessions sessionManager, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		if claims.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if err := sessions.End(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthMe returns the signed-in account.
func AuthMe(sessions sessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		account := sessions.Current()
		if account == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		responses.WriteSuccess(w, map[string]*accounts.AccountDTO{
			"user": accounts.FromAccount(account),
		})
	}
}
