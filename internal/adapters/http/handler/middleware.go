package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ogurasousui/roster-sync/internal/core/organization"
	"github.com/rs/zerolog"
)

type organizationContextKey struct{}

var orgContextKey = organizationContextKey{}

func contextWithOrganization(ctx context.Context, org *organization.Organization) context.Context {
	return context.WithValue(ctx, orgContextKey, org)
}

// OrganizationFromContext は認証済みの組織をコンテキストから取り出します。
func OrganizationFromContext(ctx context.Context) (*organization.Organization, bool) {
	org, ok := ctx.Value(orgContextKey).(*organization.Organization)
	return org, ok
}

// Authenticate は Authorization ヘッダーの Bearer トークンから組織を解決し、
// コンテキストに格納するミドルウェアです。
func Authenticate(orgs organization.UseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}

			org, err := orgs.AuthenticateByToken(r.Context(), token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid api token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithOrganization(r.Context(), org)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// RequestLogger はリクエスト単位のアクセスログを出力するミドルウェアです。
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", recorder.status).
				Dur("elapsed", time.Since(started)).
				Msg("request handled")
		})
	}
}
