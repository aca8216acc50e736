package models

import "guardhouse/internal/roles"

// SecurityRole: роль, как её хранит бэкенд (редактируемая).
type SecurityRole struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
	IsDefault   bool     `json:"is_default"`
	StaffCount  int      `json:"staff_count,omitempty"`
}

// Capabilities: права роли в закрытом виде; неизвестные строки игнорируются.
func (r SecurityRole) Capabilities() roles.Capability {
	c, _ := roles.ParsePermissions(r.Permissions)
	return c
}
