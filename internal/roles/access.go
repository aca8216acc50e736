package roles

import "strings"

// AccountKind: тип учётной записи (user_role на бэкенде).
type AccountKind string

const (
	AccountOrganization AccountKind = "organization"
	AccountStaff        AccountKind = "staff"
	AccountUnknown      AccountKind = ""
)

// SecurityDepartment: отдел, которому открыта консоль для staff-аккаунтов.
const SecurityDepartment = "security"

func ParseAccountKind(s string) AccountKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "organization", "organisation", "org", "owner", "admin":
		return AccountOrganization
	case "staff", "employee":
		return AccountStaff
	}
	return AccountUnknown
}

// Principal: то, что консоли нужно знать о вошедшем пользователе.
type Principal struct {
	Account    AccountKind
	StaffRole  Role
	Department string
}

// Capabilities: владелец организации получает всё; сотрудник получает права своей
// роли, но только если он из отдела безопасности.
func (p Principal) Capabilities() Capability {
	switch p.Account {
	case AccountOrganization:
		return AllCapabilities
	case AccountStaff:
		if !strings.EqualFold(strings.TrimSpace(p.Department), SecurityDepartment) {
			return 0
		}
		return p.StaffRole.Capabilities()
	default:
		return 0
	}
}

func (p Principal) Can(c Capability) bool { return p.Capabilities().Has(c) }
