package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

const (
	msgRequired       = "Please enter both a username and a password."
	msgInvalidInput   = "That username or password cannot be used."
	msgAlreadyExists  = "That username already exists."
	msgSignupFailed   = "Signup failed. Please try again."
	msgBadCredentials = "Invalid username or password."
	msgTryLater       = "Something went wrong. Please try again later."
)

// UserStore is the credential store the handlers need.
type UserStore interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	FindByCredentials(ctx context.Context, username, password string) (*models.User, error)
}

type meResponse struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
}

func formCredentials(r *http.Request) (string, string) {
	return strings.TrimSpace(r.PostFormValue("username")), strings.TrimSpace(r.PostFormValue("password"))
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	var data pageData
	if id, ok := IdentityFromContext(r.Context()); ok {
		data.Username = id.Username
	}
	s.render(w, r, http.StatusOK, "index.html", data)
}

func (s *Server) signupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "signup.html", pageData{})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := loggerFrom(ctx, s.logger)

	username, password := formCredentials(r)
	if username == "" || password == "" {
		s.metrics.Signup(metrics.ResultInvalid)
		s.render(w, r, http.StatusBadRequest, "signup.html", pageData{Err: msgRequired})
		return
	}

	_, err := s.users.Register(ctx, username, password)
	switch {
	case err == nil:
		s.metrics.Signup(metrics.ResultSuccess)
		log.Info(ctx, "user registered", "username", username)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, common.ErrorAlreadyExists):
		s.metrics.Signup(metrics.ResultDuplicate)
		s.render(w, r, http.StatusBadRequest, "signup.html", pageData{Err: msgAlreadyExists})
	case errors.Is(err, common.ErrorValidation):
		s.metrics.Signup(metrics.ResultInvalid)
		s.render(w, r, http.StatusBadRequest, "signup.html", pageData{Err: msgInvalidInput})
	default:
		s.metrics.Signup(metrics.ResultError)
		log.Error(ctx, "signup failed", "error", err.Error())
		s.render(w, r, http.StatusInternalServerError, "signup.html", pageData{Err: msgSignupFailed})
	}
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", pageData{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := loggerFrom(ctx, s.logger)

	username, password := formCredentials(r)

	user, err := s.users.FindByCredentials(ctx, username, password)
	if err != nil {
		s.metrics.Login(metrics.ResultError)
		log.Error(ctx, "credential lookup failed", "error", err.Error())
		s.render(w, r, http.StatusInternalServerError, "login.html", pageData{Err: msgTryLater})
		return
	}
	if user == nil {
		s.metrics.Login(metrics.ResultInvalid)
		s.render(w, r, http.StatusUnauthorized, "login.html", pageData{Err: msgBadCredentials})
		return
	}

	token, err := s.tokens.Issue(user.ID, user.UserName)
	if err != nil {
		s.metrics.Login(metrics.ResultError)
		log.Error(ctx, "token issue failed", "error", err.Error())
		s.render(w, r, http.StatusInternalServerError, "login.html", pageData{Err: msgTryLater})
		return
	}

	http.SetCookie(w, s.sessionCookie(token, int(s.tokens.TTL().Seconds())))
	s.metrics.Login(metrics.ResultSuccess)
	log.Info(ctx, "login succeeded", "uid", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logout only drops the client copy; the token itself stays valid until exp.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.sessionCookie("", -1))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": common.ErrorUnauthorized.Error()})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{UID: id.UID, Username: id.Username})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			loggerFrom(r.Context(), s.logger).Warn(r.Context(), "health check failed", "error", err.Error())
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionCookie builds the access_token cookie; maxAge < 0 deletes it.
func (s *Server) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
