package models

import (
	"strings"
	"time"

	"guardhouse/internal/roles"
)

type StaffType string

const (
	StaffInternal StaffType = "internal"
	StaffExternal StaffType = "external"
)

func (t StaffType) Valid() bool { return t == StaffInternal || t == StaffExternal }

type StaffStatus string

const (
	StaffActive    StaffStatus = "active"
	StaffInactive  StaffStatus = "inactive"
	StaffSuspended StaffStatus = "suspended"
)

func (s StaffStatus) Valid() bool {
	switch s {
	case StaffActive, StaffInactive, StaffSuspended:
		return true
	}
	return false
}

// Staff описывает сотрудника охраны, внутреннего (штат организации) или внешнего (подрядчик).
type Staff struct {
	ID          string      `json:"id"`
	Type        StaffType   `json:"staff_type"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone_number,omitempty"`
	Role        roles.Role  `json:"role"`
	Status      StaffStatus `json:"status"`
	GateID      string      `json:"gate_id,omitempty"`
	GateName    string      `json:"gate_name,omitempty"`
	BadgeNumber string      `json:"badge_number,omitempty"`
	CompanyID   string      `json:"company_id,omitempty"` // только для внешних
	CompanyName string      `json:"company_name,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (s Staff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type Gate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Active   bool   `json:"active"`
}

type Company struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	ContactName   string     `json:"contact_name,omitempty"`
	ContactEmail  string     `json:"contact_email,omitempty"`
	Phone         string     `json:"phone_number,omitempty"`
	ContractStart *time.Time `json:"contract_start,omitempty"`
	ContractEnd   *time.Time `json:"contract_end,omitempty"`
	GuardCount    int        `json:"guard_count"`
	Active        bool       `json:"active"`
}
