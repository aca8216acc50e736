package backend

import (
	"net/url"
	"strconv"
)

// Параметры списков, которые понимает сам бэкенд. Они же входят в ключи кэша,
// поэтому только плоские поля с omitempty.

type StaffParams struct {
	CompanyID string `json:"company_id,omitempty"`
	GateID    string `json:"gate_id,omitempty"`
}

func (p StaffParams) Values() url.Values {
	v := url.Values{}
	set(v, "company_id", p.CompanyID)
	set(v, "gate_id", p.GateID)
	return v
}

type ShiftParams struct {
	Date    string `json:"date,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	GateID  string `json:"gate_id,omitempty"`
	StaffID string `json:"staff_id,omitempty"`
}

func (p ShiftParams) Values() url.Values {
	v := url.Values{}
	set(v, "date", p.Date)
	set(v, "from", p.From)
	set(v, "to", p.To)
	set(v, "gate_id", p.GateID)
	set(v, "staff_id", p.StaffID)
	return v
}

type IncidentParams struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	GateID string `json:"gate_id,omitempty"`
}

func (p IncidentParams) Values() url.Values {
	v := url.Values{}
	set(v, "from", p.From)
	set(v, "to", p.To)
	set(v, "gate_id", p.GateID)
	return v
}

type VisitorParams struct {
	Date   string `json:"date,omitempty"`
	GateID string `json:"gate_id,omitempty"`
}

func (p VisitorParams) Values() url.Values {
	v := url.Values{}
	set(v, "date", p.Date)
	set(v, "gate_id", p.GateID)
	return v
}

type ActivityParams struct {
	EntityType string `json:"entity_type,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

func (p ActivityParams) Values() url.Values {
	v := url.Values{}
	set(v, "entity_type", p.EntityType)
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

type PerformanceParams struct {
	Period string `json:"period,omitempty"` // day|week|month|quarter
}

func (p PerformanceParams) Values() url.Values {
	v := url.Values{}
	set(v, "period", p.Period)
	return v
}

func set(v url.Values, k, val string) {
	if val != "" {
		v.Set(k, val)
	}
}
