package backend

import (
	"context"
	"net/http"

	"guardhouse/internal/models"
	"guardhouse/internal/roles"
)

type CreateStaffInput struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone_number,omitempty"`
	Password    string     `json:"password,omitempty"` // только внутренние: учётка в системе
	Role        roles.Role `json:"role"`
	GateID      string     `json:"gate_id,omitempty"`
	BadgeNumber string     `json:"badge_number,omitempty"`
	CompanyID   string     `json:"company_id,omitempty"` // только внешние
	Department  string     `json:"department,omitempty"`
}

func (c *Client) ListInternalStaff(ctx context.Context, p StaffParams) ([]models.Staff, error) {
	q := p.Values()
	q.Set("department", roles.SecurityDepartment)
	var out []models.Staff
	err := c.Request(ctx, http.MethodGet, "/auth/staff", q, nil, &out)
	return stamp(out, models.StaffInternal), err
}

func (c *Client) ListExternalStaff(ctx context.Context, p StaffParams) ([]models.Staff, error) {
	var out []models.Staff
	err := c.Request(ctx, http.MethodGet, "/security/external-staff", p.Values(), nil, &out)
	return stamp(out, models.StaffExternal), err
}

// бэкенд не всегда присылает staff_type: ставим по источнику
func stamp(list []models.Staff, t models.StaffType) []models.Staff {
	for i := range list {
		if list[i].Type == "" {
			list[i].Type = t
		}
	}
	return list
}

func (c *Client) GetStaff(ctx context.Context, staffID string) (models.Staff, error) {
	var out models.Staff
	err := c.Request(ctx, http.MethodGet, "/security/staff/"+id(staffID), nil, nil, &out)
	return out, err
}

func (c *Client) CreateInternalStaff(ctx context.Context, in CreateStaffInput) (models.Staff, error) {
	in.Department = roles.SecurityDepartment
	in.CompanyID = ""
	var out models.Staff
	err := c.Request(ctx, http.MethodPost, "/auth/staff", nil, in, &out)
	return out, err
}

func (c *Client) CreateExternalStaff(ctx context.Context, in CreateStaffInput) (models.Staff, error) {
	in.Password = ""
	var out models.Staff
	err := c.Request(ctx, http.MethodPost, "/security/external-staff", nil, in, &out)
	return out, err
}

func (c *Client) UpdateStaffRole(ctx context.Context, staffID string, role roles.Role) (models.Staff, error) {
	return c.patchStaff(ctx, staffID, "role", map[string]any{"role": role})
}

func (c *Client) UpdateStaffGate(ctx context.Context, staffID, gateID string) (models.Staff, error) {
	return c.patchStaff(ctx, staffID, "gate", map[string]any{"gate_id": gateID})
}

func (c *Client) UpdateStaffStatus(ctx context.Context, staffID string, status models.StaffStatus) (models.Staff, error) {
	return c.patchStaff(ctx, staffID, "status", map[string]any{"status": status})
}

func (c *Client) patchStaff(ctx context.Context, staffID, field string, body any) (models.Staff, error) {
	var out models.Staff
	err := c.Request(ctx, http.MethodPut, "/security/staff/"+id(staffID)+"/"+field, nil, body, &out)
	return out, err
}

func (c *Client) RemoveStaff(ctx context.Context, staffID string) error {
	return c.Request(ctx, http.MethodDelete, "/security/staff/"+id(staffID), nil, nil, nil)
}

func (c *Client) ListGates(ctx context.Context) ([]models.Gate, error) {
	var out []models.Gate
	err := c.Request(ctx, http.MethodGet, "/security/gates", nil, nil, &out)
	return out, err
}

func (c *Client) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	err := c.Request(ctx, http.MethodGet, "/security/companies", nil, nil, &out)
	return out, err
}

type CreateCompanyInput struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone_number,omitempty"`
}

func (c *Client) CreateCompany(ctx context.Context, in CreateCompanyInput) (models.Company, error) {
	var out models.Company
	err := c.Request(ctx, http.MethodPost, "/security/companies", nil, in, &out)
	return out, err
}

func (c *Client) ListActivity(ctx context.Context, p ActivityParams) ([]models.ActivityEntry, error) {
	var out []models.ActivityEntry
	err := c.Request(ctx, http.MethodGet, "/security/activity", p.Values(), nil, &out)
	return out, err
}

func (c *Client) Performance(ctx context.Context, p PerformanceParams) ([]models.PerformanceSummary, error) {
	var out []models.PerformanceSummary
	err := c.Request(ctx, http.MethodGet, "/security/performance", p.Values(), nil, &out)
	return out, err
}
