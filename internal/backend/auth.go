package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"guardhouse/internal/models"
)

type loginRequest struct {
	EmailOrUsername string `json:"email_or_username"`
	Password        string `json:"password"`
	ClientType      string `json:"client_type"`
}

// LoginResult: токены и профиль. Для desktop-клиента бэкенд отдаёт их в корне ответа.
type LoginResult struct {
	Message                 string          `json:"message"`
	AccessToken             string          `json:"access_token"`
	RefreshToken            string          `json:"refresh_token"`
	Username                string          `json:"username"`
	Email                   string          `json:"email"`
	PhoneNumber             string          `json:"phone_number"`
	UserRole                json.RawMessage `json:"user_role"`
	OrganizationName        string          `json:"organization_name"`
	OrganizationType        string          `json:"organization_type"`
	TaxIdentificationNumber string          `json:"tax_identification_number"`
	ProfilePicURL           string          `json:"profile_pic_url"`
	LogoURL                 string          `json:"logo_url"`
	StaffRole               string          `json:"staff_role"`
	Department              string          `json:"department"`
}

// Login проверяет учётные данные на бэкенде. Ошибки переводятся в понятные
// пользователю сообщения.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		EmailOrUsername: strings.TrimSpace(identifier),
		Password:        password,
		ClientType:      clientType,
	}, &res, "")
	if err != nil {
		return nil, friendlyLoginError(err)
	}
	if res.AccessToken == "" {
		return nil, &APIError{HTTPStatus: http.StatusOK, Message: "No access token in response"}
	}
	if res.Message == "" {
		res.Message = "Login successful"
	}
	return &res, nil
}

func friendlyLoginError(err error) error {
	var ae *APIError
	if !errors.As(err, &ae) {
		return err
	}
	switch ae.Detail {
	case "Account not found":
		ae.Message = "Account not found. Please check your email address."
		return ae
	case "Invalid password":
		ae.Message = "Invalid password. Please try again."
		return ae
	case "Invalid credentials":
		ae.Message = "Invalid email or password. Please try again."
		return ae
	}
	if ae.Detail != "" {
		return ae
	}
	if ae.Message != "" && ae.Message != genericMessage(ae.HTTPStatus) {
		return ae
	}
	switch ae.HTTPStatus {
	case http.StatusUnauthorized:
		ae.Message = "Invalid email or password. Please try again."
	case http.StatusForbidden:
		ae.Message = "Access denied. Your account may not have permission to use this application."
	case http.StatusNotFound:
		ae.Message = "Account not found. Please check your email address."
	case http.StatusInternalServerError:
		ae.Message = "Server error. Please try again later."
	default:
		ae.Message = "Login failed. Please try again."
	}
	return ae
}

// Logout отзывает токен на бэкенде. Токен передаётся явно: сессия к этому
// моменту может быть уже очищена.
func (c *Client) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, token)
}

func (c *Client) OrganizationInfo(ctx context.Context) (models.OrganizationInfo, error) {
	var out models.OrganizationInfo
	err := c.Request(ctx, http.MethodGet, "/auth/organization/info", nil, nil, &out)
	return out, err
}
