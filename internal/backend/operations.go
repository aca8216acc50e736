package backend

import (
	"context"
	"net/http"

	"guardhouse/internal/models"
)

// ---------- Shifts ----------

type ShiftInput struct {
	StaffID   string `json:"staff_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	GateID    string `json:"gate_id"`
	Notes     string `json:"notes,omitempty"`
}

func (c *Client) ListShifts(ctx context.Context, p ShiftParams) ([]models.ShiftAssignment, error) {
	var out []models.ShiftAssignment
	err := c.Request(ctx, http.MethodGet, "/security/shifts", p.Values(), nil, &out)
	return out, err
}

func (c *Client) GetShift(ctx context.Context, shiftID string) (models.ShiftAssignment, error) {
	var out models.ShiftAssignment
	err := c.Request(ctx, http.MethodGet, "/security/shifts/"+id(shiftID), nil, nil, &out)
	return out, err
}

func (c *Client) CreateShift(ctx context.Context, in ShiftInput) (models.ShiftAssignment, error) {
	var out models.ShiftAssignment
	err := c.Request(ctx, http.MethodPost, "/security/shifts", nil, in, &out)
	return out, err
}

func (c *Client) UpdateShift(ctx context.Context, shiftID string, in ShiftInput) (models.ShiftAssignment, error) {
	var out models.ShiftAssignment
	err := c.Request(ctx, http.MethodPut, "/security/shifts/"+id(shiftID), nil, in, &out)
	return out, err
}

// ShiftTransition: cancel|start|complete.
func (c *Client) ShiftTransition(ctx context.Context, shiftID, action, reason string) (models.ShiftAssignment, error) {
	var body any
	if reason != "" {
		body = map[string]string{"reason": reason}
	}
	var out models.ShiftAssignment
	err := c.Request(ctx, http.MethodPost, "/security/shifts/"+id(shiftID)+"/"+action, nil, body, &out)
	return out, err
}

// ---------- Roles ----------

type RoleInput struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
	IsDefault   bool     `json:"is_default"`
}

func (c *Client) ListRoles(ctx context.Context) ([]models.SecurityRole, error) {
	var out []models.SecurityRole
	err := c.Request(ctx, http.MethodGet, "/security/roles", nil, nil, &out)
	return out, err
}

func (c *Client) CreateRole(ctx context.Context, in RoleInput) (models.SecurityRole, error) {
	var out models.SecurityRole
	err := c.Request(ctx, http.MethodPost, "/security/roles", nil, in, &out)
	return out, err
}

func (c *Client) UpdateRole(ctx context.Context, roleID string, in RoleInput) (models.SecurityRole, error) {
	var out models.SecurityRole
	err := c.Request(ctx, http.MethodPut, "/security/roles/"+id(roleID), nil, in, &out)
	return out, err
}

func (c *Client) DeleteRole(ctx context.Context, roleID string) error {
	return c.Request(ctx, http.MethodDelete, "/security/roles/"+id(roleID), nil, nil, nil)
}

func (c *Client) SetDefaultRole(ctx context.Context, roleID string) (models.SecurityRole, error) {
	var out models.SecurityRole
	err := c.Request(ctx, http.MethodPost, "/security/roles/"+id(roleID)+"/default", nil, nil, &out)
	return out, err
}

// ---------- Incidents ----------

type IncidentInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Severity    models.Severity `json:"severity"`
	Location    string          `json:"location"`
	GateID      string          `json:"gate_id,omitempty"`
	OccurredAt  string          `json:"occurred_at,omitempty"` // RFC3339
}

type IncidentUpdate struct {
	Severity    models.Severity       `json:"severity,omitempty"`
	Status      models.IncidentStatus `json:"status,omitempty"`
	Description string                `json:"description,omitempty"`
}

func (c *Client) ListIncidents(ctx context.Context, p IncidentParams) ([]models.Incident, error) {
	var out []models.Incident
	err := c.Request(ctx, http.MethodGet, "/security/incidents", p.Values(), nil, &out)
	return out, err
}

func (c *Client) GetIncident(ctx context.Context, incidentID string) (models.Incident, error) {
	var out models.Incident
	err := c.Request(ctx, http.MethodGet, "/security/incidents/"+id(incidentID), nil, nil, &out)
	return out, err
}

func (c *Client) IncidentStats(ctx context.Context) (models.IncidentStats, error) {
	var out models.IncidentStats
	err := c.Request(ctx, http.MethodGet, "/security/incidents/stats", nil, nil, &out)
	return out, err
}

func (c *Client) ReportIncident(ctx context.Context, in IncidentInput) (models.Incident, error) {
	var out models.Incident
	err := c.Request(ctx, http.MethodPost, "/security/incidents", nil, in, &out)
	return out, err
}

func (c *Client) UpdateIncident(ctx context.Context, incidentID string, in IncidentUpdate) (models.Incident, error) {
	var out models.Incident
	err := c.Request(ctx, http.MethodPut, "/security/incidents/"+id(incidentID), nil, in, &out)
	return out, err
}

func (c *Client) ResolveIncident(ctx context.Context, incidentID, notes string) (models.Incident, error) {
	var out models.Incident
	err := c.Request(ctx, http.MethodPost, "/security/incidents/"+id(incidentID)+"/resolve", nil,
		map[string]string{"resolution_notes": notes}, &out)
	return out, err
}

// ---------- Visitors ----------

type VisitorRouting struct {
	Department string `json:"department,omitempty"`
	StaffID    string `json:"staff_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (c *Client) ListVisitors(ctx context.Context, p VisitorParams) ([]models.VisitorLog, error) {
	var out []models.VisitorLog
	err := c.Request(ctx, http.MethodGet, "/security/visitors", p.Values(), nil, &out)
	return out, err
}

func (c *Client) VisitorStats(ctx context.Context) (models.VisitorStats, error) {
	var out models.VisitorStats
	err := c.Request(ctx, http.MethodGet, "/security/visitors/stats", nil, nil, &out)
	return out, err
}

// VisitorAction: route|transfer|complete|check_out.
func (c *Client) VisitorAction(ctx context.Context, visitorID, action string, in VisitorRouting) (models.VisitorLog, error) {
	path := action
	if action == models.VisitorActionCheckOut {
		path = "checkout"
	}
	var body any
	if in != (VisitorRouting{}) {
		body = in
	}
	var out models.VisitorLog
	err := c.Request(ctx, http.MethodPost, "/security/visitors/"+id(visitorID)+"/"+path, nil, body, &out)
	return out, err
}
