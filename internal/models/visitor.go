package models

import "time"

type VisitorStatus string

const (
	VisitorCheckedIn      VisitorStatus = "checked_in"
	VisitorPendingRouting VisitorStatus = "pending_routing"
	VisitorRouted         VisitorStatus = "routed"
	VisitorInService      VisitorStatus = "in_service"
	VisitorTransferred    VisitorStatus = "transferred"
	VisitorCompleted      VisitorStatus = "completed"
	VisitorCheckedOut     VisitorStatus = "checked_out"
)

func VisitorStatuses() []VisitorStatus {
	return []VisitorStatus{
		VisitorCheckedIn, VisitorPendingRouting, VisitorRouted, VisitorInService,
		VisitorTransferred, VisitorCompleted, VisitorCheckedOut,
	}
}

func (s VisitorStatus) Valid() bool {
	for _, v := range VisitorStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// Действия над визитом и статусы, из которых они допустимы.
const (
	VisitorActionRoute    = "route"
	VisitorActionTransfer = "transfer"
	VisitorActionComplete = "complete"
	VisitorActionCheckOut = "check_out"
)

var visitorTransitions = map[string][]VisitorStatus{
	VisitorActionRoute:    {VisitorCheckedIn, VisitorPendingRouting},
	VisitorActionTransfer: {VisitorRouted, VisitorInService},
	VisitorActionComplete: {VisitorInService, VisitorTransferred},
	VisitorActionCheckOut: {
		VisitorCheckedIn, VisitorPendingRouting, VisitorRouted,
		VisitorInService, VisitorTransferred, VisitorCompleted,
	},
}

func ValidVisitorTransition(action string, from VisitorStatus) bool {
	for _, s := range visitorTransitions[action] {
		if s == from {
			return true
		}
	}
	return false
}

// VisitorLog: запись журнала посетителей у поста.
type VisitorLog struct {
	ID                    string        `json:"id"`
	FullName              string        `json:"full_name"`
	Phone                 string        `json:"phone_number,omitempty"`
	IDNumber              string        `json:"id_number,omitempty"`
	Purpose               string        `json:"purpose,omitempty"`
	Status                VisitorStatus `json:"status"`
	DestinationDepartment string        `json:"destination_department,omitempty"`
	DestinationStaffID    string        `json:"destination_staff_id,omitempty"`
	DestinationStaffName  string        `json:"destination_staff_name,omitempty"`
	GateID                string        `json:"gate_id,omitempty"`
	BadgeNumber           string        `json:"badge_number,omitempty"`
	CheckedInAt           time.Time     `json:"checked_in_at"`
	CheckedOutAt          *time.Time    `json:"checked_out_at,omitempty"`
}

type VisitorStats struct {
	TotalToday          int                   `json:"total_today"`
	OnSite              int                   `json:"on_site"`
	AverageVisitMinutes float64               `json:"average_visit_minutes"`
	ByStatus            map[VisitorStatus]int `json:"by_status"`
}
