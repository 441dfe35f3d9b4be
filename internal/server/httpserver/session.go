package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
)

// Identity is who a request is authenticated as. It is only ever built from
// verified token claims.
type Identity struct {
	UID      int64
	Username string
}

// TokenVerifier validates a raw session token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// SessionResolver turns the access_token cookie into an Identity.
type SessionResolver struct {
	tokens  TokenVerifier
	logger  logging.Logger
	metrics *metrics.Metrics
}

// NewSessionResolver returns a resolver that records outcomes in m.
func NewSessionResolver(v TokenVerifier, l logging.Logger, m *metrics.Metrics) *SessionResolver {
	return &SessionResolver{tokens: v, logger: l.With("module", "session"), metrics: m}
}

// ResolveIdentity reports false for a missing, expired or otherwise invalid
// token. Verification failures are never surfaced to the caller.
func (s *SessionResolver) ResolveIdentity(r *http.Request) (Identity, bool) {
	c, err := r.Cookie(common.AccessTokenCookieName)
	if err != nil || c.Value == "" {
		return Identity{}, false
	}

	claims, err := s.tokens.Verify(c.Value)
	if err != nil {
		reason := metrics.ResultInvalid
		if errors.Is(err, common.ErrTokenExpired) {
			reason = metrics.ResultExpired
		}
		s.metrics.TokenVerification(reason)
		s.logger.Info(r.Context(), "session token rejected", "reason", reason, "error", err.Error())
		return Identity{}, false
	}

	s.metrics.TokenVerification(metrics.ResultValid)
	return Identity{UID: claims.UID, Username: claims.Username}, true
}

type ctxKey string

const identityKey ctxKey = "identity"

// Middleware resolves the session once per request and stores the Identity
// in the request context. Anonymous requests pass through unchanged.
func (s *SessionResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := s.ResolveIdentity(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext returns the Identity stored by Middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
