package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/mutation"
)

type claimsKey struct{}

// withRequestMeta attaches client metadata to the context so audit records
// can carry it.
func (s *Server) withRequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := mutation.WithMeta(r.Context(), mutation.Meta{
			IP:        r.RemoteAddr,
			UserAgent: r.UserAgent(),
			Referer:   r.Referer(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withSession verifies a bearer session token when one is presented. A
// missing token is fine; a presented-but-invalid token is rejected outright
// rather than silently downgraded to anonymous.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		claims, err := s.tokens.Verify(tokenString)
		if err != nil {
			s.logger.Debug("session token rejected", "error", err)
			writeErrorMessage(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(claimsKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}

// credentials collects everything the request presented. The event key rides
// the X-Event-Key header or the key query parameter; the guest token rides
// X-Guest-Token or the token query parameter.
func credentials(r *http.Request) auth.Credentials {
	creds := auth.Credentials{Claims: claimsFromContext(r.Context())}

	creds.EventKey = r.Header.Get("X-Event-Key")
	if creds.EventKey == "" {
		creds.EventKey = r.URL.Query().Get("key")
	}

	creds.GuestToken = r.Header.Get("X-Guest-Token")
	if creds.GuestToken == "" {
		creds.GuestToken = r.URL.Query().Get("token")
	}

	return creds
}
