package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier accepts exactly one token value.
type fakeVerifier struct {
	valid  string
	claims *auth.Claims
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	f.calls++
	if token == f.valid {
		return f.claims, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return nil, common.ErrInvalidToken
}

func newResolver(t *testing.T, v TokenVerifier) (*SessionResolver, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewSessionResolver(v, logging.Nop{}, metrics.New(reg)), reg
}

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: value})
	}
	return r
}

func assertVerifications(t *testing.T, reg *prometheus.Registry, result string, n int) {
	t.Helper()
	expected := fmt.Sprintf(`
# HELP gophauth_token_verifications_total Session token verifications by result.
# TYPE gophauth_token_verifications_total counter
gophauth_token_verifications_total{result=%q} %d
`, result, n)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gophauth_token_verifications_total"))
}

func TestResolveIdentity_NoCookie(t *testing.T) {
	v := &fakeVerifier{}
	s, _ := newResolver(t, v)

	_, ok := s.ResolveIdentity(requestWithCookie(""))
	assert.False(t, ok)
	assert.Zero(t, v.calls, "nothing to verify")
}

func TestResolveIdentity_Valid(t *testing.T) {
	v := &fakeVerifier{valid: "good", claims: &auth.Claims{UID: 7, Username: "alice"}}
	s, reg := newResolver(t, v)

	id, ok := s.ResolveIdentity(requestWithCookie("good"))
	require.True(t, ok)
	assert.Equal(t, Identity{UID: 7, Username: "alice"}, id)
	assertVerifications(t, reg, metrics.ResultValid, 1)
}

func TestResolveIdentity_Invalid(t *testing.T) {
	s, reg := newResolver(t, &fakeVerifier{valid: "good"})

	_, ok := s.ResolveIdentity(requestWithCookie("forged"))
	assert.False(t, ok)
	assertVerifications(t, reg, metrics.ResultInvalid, 1)
}

func TestResolveIdentity_Expired(t *testing.T) {
	s, reg := newResolver(t, &fakeVerifier{err: common.ErrTokenExpired})

	_, ok := s.ResolveIdentity(requestWithCookie("old"))
	assert.False(t, ok)
	assertVerifications(t, reg, metrics.ResultExpired, 1)
}

func TestResolveIdentity_IgnoresOtherRequestValues(t *testing.T) {
	s, _ := newResolver(t, &fakeVerifier{valid: "good", claims: &auth.Claims{UID: 7, Username: "alice"}})

	r := httptest.NewRequest(http.MethodGet, "/?uid=1&username=admin", nil)
	r.Header.Set("X-User", "admin")
	r.AddCookie(&http.Cookie{Name: "uid", Value: "1"})

	_, ok := s.ResolveIdentity(r)
	assert.False(t, ok)
}

func TestMiddleware_StoresIdentity(t *testing.T) {
	s, _ := newResolver(t, &fakeVerifier{valid: "good", claims: &auth.Claims{UID: 3, Username: "bob"}})

	var (
		got Identity
		ok  bool
	)
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), requestWithCookie("good"))
	require.True(t, ok)
	assert.Equal(t, Identity{UID: 3, Username: "bob"}, got)
}

func TestMiddleware_AnonymousPassesThrough(t *testing.T) {
	s, _ := newResolver(t, &fakeVerifier{err: errors.New("broken")})

	called := false
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := IdentityFromContext(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithCookie("garbage"))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
