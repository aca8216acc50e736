package models

import "time"

type OrganizationInfo struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"organization_name"`
	Type                    string   `json:"organization_type,omitempty"`
	Email                   string   `json:"email,omitempty"`
	Phone                   string   `json:"phone_number,omitempty"`
	Address                 string   `json:"address,omitempty"`
	LogoURL                 string   `json:"logo_url,omitempty"`
	TaxIdentificationNumber string   `json:"tax_identification_number,omitempty"`
	Departments             []string `json:"departments,omitempty"`
}

// ActivityEntry: строка журнала действий (кто, что, над чем).
type ActivityEntry struct {
	ID          string    `json:"id"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id,omitempty"`
	Description string    `json:"description,omitempty"`
	At          time.Time `json:"timestamp"`
}

type PerformanceSummary struct {
	StaffID           string  `json:"staff_id"`
	StaffName         string  `json:"staff_name"`
	ShiftsCompleted   int     `json:"shifts_completed"`
	ShiftsMissed      int     `json:"shifts_missed"`
	IncidentsReported int     `json:"incidents_reported"`
	IncidentsResolved int     `json:"incidents_resolved"`
	AttendanceRate    float64 `json:"attendance_rate"`
}
