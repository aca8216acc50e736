package models

import "time"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rank для сортировки, critical первым.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

type IncidentStatus string

const (
	IncidentOpen          IncidentStatus = "open"
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentResolved      IncidentStatus = "resolved"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentOpen, IncidentInvestigating, IncidentResolved:
		return true
	}
	return false
}

type Incident struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Severity        Severity       `json:"severity"`
	Status          IncidentStatus `json:"status"`
	Location        string         `json:"location"`
	GateID          string         `json:"gate_id,omitempty"`
	ReportedBy      string         `json:"reported_by"`
	ReportedByName  string         `json:"reported_by_name,omitempty"`
	OccurredAt      time.Time      `json:"occurred_at"`
	ReportedAt      time.Time      `json:"reported_at"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	ResolutionNotes string         `json:"resolution_notes,omitempty"`
}

func (i Incident) Resolved() bool { return i.Status == IncidentResolved }

type IncidentStats struct {
	Total      int              `json:"total"`
	Open       int              `json:"open"`
	Resolved   int              `json:"resolved"`
	BySeverity map[Severity]int `json:"by_severity"`
}
