// Package session хранит единственную сессию консоли: токены и профиль,
// выданные бэкендом при входе. Заменяет ключи localStorage браузерной версии
// (user_role, user_email, username, organization_*, staff_role, department).
package session

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"guardhouse/internal/roles"
)

type Session struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`

	Username                string          `json:"username"`
	UserEmail               string          `json:"user_email"`
	UserRole                json.RawMessage `json:"user_role,omitempty"`
	OrganizationName        string          `json:"organization_name,omitempty"`
	OrganizationType        string          `json:"organization_type,omitempty"`
	TaxIdentificationNumber string          `json:"tax_identification_number,omitempty"`
	ProfilePicURL           string          `json:"profile_pic_url,omitempty"`
	LogoURL                 string          `json:"logo_url,omitempty"`
	StaffRole               string          `json:"staff_role,omitempty"`
	Department              string          `json:"department,omitempty"`
	LoggedInAt              time.Time       `json:"logged_in_at"`
}

func (s Session) Authenticated() bool { return s.AccessToken != "" }

// Account разбирает user_role: бэкенд присылает строку или объект
// вида {"name": "..."} / {"role": "..."}.
func (s Session) Account() roles.AccountKind {
	var str string
	if json.Unmarshal(s.UserRole, &str) == nil {
		if k := roles.ParseAccountKind(str); k != roles.AccountUnknown {
			return k
		}
	}
	var obj map[string]any
	if json.Unmarshal(s.UserRole, &obj) == nil {
		for _, f := range []string{"name", "role", "type"} {
			if v, ok := obj[f].(string); ok {
				if k := roles.ParseAccountKind(v); k != roles.AccountUnknown {
					return k
				}
			}
		}
	}
	if strings.TrimSpace(s.StaffRole) != "" {
		return roles.AccountStaff
	}
	return roles.AccountUnknown
}

// Principal: закрытое представление для проверок доступа.
// Неизвестная staff_role даёт пустой набор прав.
func (s Session) Principal() roles.Principal {
	p := roles.Principal{Account: s.Account(), Department: s.Department}
	if r, err := roles.Parse(s.StaffRole); err == nil {
		p.StaffRole = r
	}
	return p
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
