package console

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"guardhouse/internal/backend"
	"guardhouse/internal/middleware"
	"guardhouse/internal/models"
	"guardhouse/internal/session"
)

type loginForm struct {
	Identifier string `json:"email_or_username"`
	Password   string `json:"password"`
	Next       string `json:"next"`
}

func (f loginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Identifier, validation.Required.Error("email or username is required")),
		validation.Field(&f.Password, validation.Required.Error("password is required")),
	)
}

// sessionFromLogin: профиль из ответа входа; заменяет запись в localStorage.
func sessionFromLogin(res *backend.LoginResult, now time.Time) session.Session {
	return session.Session{
		AccessToken:             res.AccessToken,
		RefreshToken:            res.RefreshToken,
		Username:                res.Username,
		UserEmail:               res.Email,
		UserRole:                res.UserRole,
		OrganizationName:        res.OrganizationName,
		OrganizationType:        res.OrganizationType,
		TaxIdentificationNumber: res.TaxIdentificationNumber,
		ProfilePicURL:           res.ProfilePicURL,
		LogoURL:                 res.LogoURL,
		StaffRole:               res.StaffRole,
		Department:              res.Department,
		LoggedInAt:              now.UTC(),
	}
}

type sessionView struct {
	Authenticated bool             `json:"authenticated"`
	Session       *session.Session `json:"session,omitempty"`
	Account       string           `json:"account,omitempty"`
	StaffRole     string           `json:"staff_role_display,omitempty"`
	Capabilities  []string         `json:"capabilities"`
}

func describe(s session.Session) sessionView {
	p := s.Principal()
	v := sessionView{
		Authenticated: true,
		Session:       &s,
		Account:       string(p.Account),
		Capabilities:  p.Capabilities().Strings(),
	}
	if p.StaffRole != "" {
		v.StaffRole = p.StaffRole.DisplayName()
	}
	return v
}

func isFormPost(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data")
}

// safeNext: только локальные пути, без открытого редиректа.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var f loginForm
	htmlForm := isFormPost(r)
	if htmlForm {
		if err := r.ParseForm(); err != nil {
			models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
			return
		}
		f = loginForm{Identifier: r.PostForm.Get("email_or_username"), Password: r.PostForm.Get("password"), Next: r.PostForm.Get("next")}
		if err := f.Validate(); err != nil {
			h.renderLogin(w, http.StatusBadRequest, f.Identifier, f.Next, firstMessage(err))
			return
		}
	} else if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}

	res, err := h.d.API.Login(r.Context(), f.Identifier, f.Password)
	if err != nil {
		h.d.Log.WithError(err).WithField("identifier", f.Identifier).Warn("login failed")
		if htmlForm {
			h.renderLogin(w, http.StatusUnauthorized, f.Identifier, f.Next, err.Error())
			return
		}
		writeLoginError(w, err)
		return
	}

	s := sessionFromLogin(res, h.d.Now())
	if s.Principal().Capabilities() == 0 {
		// вход прошёл, но консоль не для этого пользователя: токен сразу отзываем
		h.revoke(r.Context(), s.AccessToken)
		msg := "Access denied. This console is available to the organization and its security department."
		if htmlForm {
			h.renderLogin(w, http.StatusForbidden, f.Identifier, f.Next, msg)
			return
		}
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", msg, nil)
		return
	}
	if err := h.d.Sessions.Save(r.Context(), s); err != nil {
		h.d.Log.WithError(err).Error("session save failed")
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not store the session", nil)
		return
	}
	h.d.Log.WithField("username", s.Username).Info("signed in")

	if htmlForm {
		http.Redirect(w, r, safeNext(f.Next), http.StatusSeeOther)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"message": res.Message, "session": describe(s)})
}

func writeLoginError(w http.ResponseWriter, err error) {
	var ae *backend.APIError
	if !errors.As(err, &ae) {
		writeBackendError(w, err)
		return
	}
	status := http.StatusUnauthorized
	switch {
	case ae.HTTPStatus == http.StatusForbidden:
		status = http.StatusForbidden
	case ae.HTTPStatus >= 500:
		status = http.StatusBadGateway
	}
	models.WriteProblem(w, status, "Login Failed", ae.Error(), nil)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	prev, err := h.d.Sessions.Clear(r.Context())
	if err != nil {
		h.d.Log.WithError(err).Warn("session store cleanup failed")
	}
	if prev.AccessToken != "" {
		h.revoke(r.Context(), prev.AccessToken)
		h.d.Log.WithField("username", prev.Username).Info("signed out")
	}
	if isFormPost(r) || wantsPage(r) {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// revoke: отзыв токена на бэкенде; локально сессия уже погашена, ошибку только логируем.
func (h *Handler) revoke(ctx context.Context, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := h.d.API.Logout(ctx, token); err != nil {
		h.d.Log.WithError(err).Warn("backend logout failed")
	}
}

func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.d.Sessions.Current()
	if !ok {
		models.WriteJSON(w, http.StatusOK, sessionView{Capabilities: []string{}})
		return
	}
	models.WriteJSON(w, http.StatusOK, describe(s))
}

func wantsPage(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func firstMessage(err error) string {
	if fields, ok := fieldErrors(err); ok {
		for _, k := range []string{"email_or_username", "password"} {
			if m, ok := fields[k]; ok {
				return m
			}
		}
	}
	return err.Error()
}

func loginURL(next string) string {
	if next == "" || next == "/" {
		return middleware.LoginPath
	}
	return middleware.LoginPath + "?next=" + url.QueryEscape(next)
}
