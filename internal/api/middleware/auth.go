package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/token"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

type viewerCtxKey struct{}

// Authenticator verifies session tokens and resolves the viewer behind
// them. The viewer may be absent: a request without a valid session is
// anonymous, and a valid session whose subject has not been provisioned
// yet resolves to no viewer.
type Authenticator struct {
	signer *token.Signer
	users  usecase.UserService
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(signer *token.Signer, users usecase.UserService) *Authenticator {
	return &Authenticator{signer: signer, users: users}
}

// Optional resolves the viewer when a valid session token is presented and
// lets the request through either way.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, err := a.resolve(r)
		if err != nil {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
	})
}

// Required refuses requests without a resolvable viewer.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, err := a.resolve(r)
		if err != nil || viewer == nil {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
	})
}

// resolve returns the viewer for the request's session token. A missing
// Authorization header yields (nil, nil); a present but invalid token is an
// error so clients learn their session is dead instead of being silently
// downgraded to anonymous.
func (a *Authenticator) resolve(r *http.Request) (*model.User, error) {
	raw := bearerToken(r)
	if raw == "" {
		return nil, nil
	}

	claims, err := a.signer.Verify(raw, token.AudienceSession)
	if err != nil {
		return nil, err
	}

	viewer, err := a.users.ResolveViewer(r.Context(), claims.Subject)
	if err != nil {
		slog.Error("failed to resolve viewer",
			slog.String("subject", claims.Subject),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return viewer, nil
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": "A valid session is required",
	})
}

// WithViewer returns a context carrying the resolved viewer.
func WithViewer(ctx context.Context, viewer *model.User) context.Context {
	return context.WithValue(ctx, viewerCtxKey{}, viewer)
}

// Viewer returns the resolved viewer for the request, or nil for anonymous
// requests.
func Viewer(ctx context.Context) *model.User {
	viewer, _ := ctx.Value(viewerCtxKey{}).(*model.User)
	return viewer
}
