package mutations

import (
	"context"

	"guardhouse/internal/backend"
	"guardhouse/internal/models"
	"guardhouse/internal/queries"
	"guardhouse/internal/querycache"
	"guardhouse/internal/roles"
)

// Входы мутаций, которым кроме тела запроса нужны идентификаторы.

type StaffRoleChange struct {
	StaffID string     `json:"staff_id"`
	Role    roles.Role `json:"role"`
}

// StaffType нужен, чтобы инвалидировать только список своего типа.
type StaffGateChange struct {
	StaffID   string           `json:"staff_id"`
	StaffType models.StaffType `json:"staff_type"`
	GateID    string           `json:"gate_id"`
}

type StaffStatusChange struct {
	StaffID   string             `json:"staff_id"`
	StaffType models.StaffType   `json:"staff_type"`
	Status    models.StaffStatus `json:"status"`
}

type StaffRef struct {
	StaffID   string           `json:"staff_id"`
	StaffType models.StaffType `json:"staff_type"`
}

type ShiftUpdate struct {
	ShiftID string             `json:"shift_id"`
	Input   backend.ShiftInput `json:"input"`
}

type ShiftAction struct {
	ShiftID string `json:"shift_id"`
	Reason  string `json:"reason,omitempty"`
}

type RoleUpdate struct {
	RoleID string            `json:"role_id"`
	Input  backend.RoleInput `json:"input"`
}

type IncidentChange struct {
	IncidentID string                 `json:"incident_id"`
	Input      backend.IncidentUpdate `json:"input"`
}

type IncidentResolution struct {
	IncidentID string `json:"incident_id"`
	Notes      string `json:"resolution_notes"`
}

type VisitorMove struct {
	VisitorID string                 `json:"visitor_id"`
	Routing   backend.VisitorRouting `json:"routing"`
}

func keys(k ...querycache.Key) []querycache.Key { return k }

// ---------- staff ----------

func CreateInternalStaff(api *backend.Client) Mutation[backend.CreateStaffInput, models.Staff] {
	return Mutation[backend.CreateStaffInput, models.Staff]{
		Name: "staff.create_internal",
		Do:   api.CreateInternalStaff,
		Invalidates: func(backend.CreateStaffInput) []querycache.Key {
			return keys(queries.Staff.InternalLists(), queries.Activity.All())
		},
	}
}

func CreateExternalStaff(api *backend.Client) Mutation[backend.CreateStaffInput, models.Staff] {
	return Mutation[backend.CreateStaffInput, models.Staff]{
		Name: "staff.create_external",
		Do:   api.CreateExternalStaff,
		Invalidates: func(backend.CreateStaffInput) []querycache.Key {
			// у компании растёт guard_count
			return keys(queries.Staff.ExternalLists(), queries.Companies.All(), queries.Activity.All())
		},
	}
}

func UpdateStaffRole(api *backend.Client) Mutation[StaffRoleChange, models.Staff] {
	return Mutation[StaffRoleChange, models.Staff]{
		Name: "staff.update_role",
		Do: func(ctx context.Context, in StaffRoleChange) (models.Staff, error) {
			return api.UpdateStaffRole(ctx, in.StaffID, in.Role)
		},
		Invalidates: func(in StaffRoleChange) []querycache.Key {
			return keys(queries.Staff.InternalLists(), queries.Staff.ExternalLists(),
				queries.Staff.Detail(in.StaffID), queries.Activity.All())
		},
	}
}

func UpdateStaffGate(api *backend.Client) Mutation[StaffGateChange, models.Staff] {
	return Mutation[StaffGateChange, models.Staff]{
		Name: "staff.update_gate",
		Do: func(ctx context.Context, in StaffGateChange) (models.Staff, error) {
			return api.UpdateStaffGate(ctx, in.StaffID, in.GateID)
		},
		Invalidates: func(in StaffGateChange) []querycache.Key {
			return keys(queries.Staff.TypeLists(in.StaffType), queries.Staff.Detail(in.StaffID),
				queries.Activity.All())
		},
	}
}

func UpdateStaffStatus(api *backend.Client) Mutation[StaffStatusChange, models.Staff] {
	return Mutation[StaffStatusChange, models.Staff]{
		Name: "staff.update_status",
		Do: func(ctx context.Context, in StaffStatusChange) (models.Staff, error) {
			return api.UpdateStaffStatus(ctx, in.StaffID, in.Status)
		},
		Invalidates: func(in StaffStatusChange) []querycache.Key {
			return keys(queries.Staff.TypeLists(in.StaffType), queries.Staff.Detail(in.StaffID),
				queries.Performance.All(), queries.Activity.All())
		},
	}
}

func RemoveStaff(api *backend.Client) Mutation[StaffRef, struct{}] {
	return Mutation[StaffRef, struct{}]{
		Name: "staff.remove",
		Do: func(ctx context.Context, in StaffRef) (struct{}, error) {
			return struct{}{}, api.RemoveStaff(ctx, in.StaffID)
		},
		Invalidates: func(in StaffRef) []querycache.Key {
			// смены удалённого сотрудника бэкенд снимает сам
			return keys(queries.Staff.TypeLists(in.StaffType), queries.Staff.Detail(in.StaffID),
				queries.Shifts.All(), queries.Activity.All())
		},
	}
}

func CreateCompany(api *backend.Client) Mutation[backend.CreateCompanyInput, models.Company] {
	return Mutation[backend.CreateCompanyInput, models.Company]{
		Name: "companies.create",
		Do:   api.CreateCompany,
		Invalidates: func(backend.CreateCompanyInput) []querycache.Key {
			return keys(queries.Companies.All(), queries.Staff.ExternalLists())
		},
	}
}

// ---------- shifts ----------

func shiftKeys() []querycache.Key {
	return keys(queries.Shifts.All(), queries.Performance.All(), queries.Activity.All())
}

func CreateShift(api *backend.Client) Mutation[backend.ShiftInput, models.ShiftAssignment] {
	return Mutation[backend.ShiftInput, models.ShiftAssignment]{
		Name:        "shifts.create",
		Do:          api.CreateShift,
		Invalidates: func(backend.ShiftInput) []querycache.Key { return shiftKeys() },
	}
}

func UpdateShift(api *backend.Client) Mutation[ShiftUpdate, models.ShiftAssignment] {
	return Mutation[ShiftUpdate, models.ShiftAssignment]{
		Name: "shifts.update",
		Do: func(ctx context.Context, in ShiftUpdate) (models.ShiftAssignment, error) {
			return api.UpdateShift(ctx, in.ShiftID, in.Input)
		},
		Invalidates: func(ShiftUpdate) []querycache.Key { return shiftKeys() },
	}
}

func shiftTransition(api *backend.Client, action string) Mutation[ShiftAction, models.ShiftAssignment] {
	return Mutation[ShiftAction, models.ShiftAssignment]{
		Name: "shifts." + action,
		Do: func(ctx context.Context, in ShiftAction) (models.ShiftAssignment, error) {
			return api.ShiftTransition(ctx, in.ShiftID, action, in.Reason)
		},
		Invalidates: func(ShiftAction) []querycache.Key { return shiftKeys() },
	}
}

func CancelShift(api *backend.Client) Mutation[ShiftAction, models.ShiftAssignment] {
	return shiftTransition(api, "cancel")
}

func StartShift(api *backend.Client) Mutation[ShiftAction, models.ShiftAssignment] {
	return shiftTransition(api, "start")
}

func CompleteShift(api *backend.Client) Mutation[ShiftAction, models.ShiftAssignment] {
	return shiftTransition(api, "complete")
}

// ---------- roles ----------

func CreateRole(api *backend.Client) Mutation[backend.RoleInput, models.SecurityRole] {
	return Mutation[backend.RoleInput, models.SecurityRole]{
		Name:        "roles.create",
		Do:          api.CreateRole,
		Invalidates: func(backend.RoleInput) []querycache.Key { return keys(queries.Roles.All()) },
	}
}

func UpdateRole(api *backend.Client) Mutation[RoleUpdate, models.SecurityRole] {
	return Mutation[RoleUpdate, models.SecurityRole]{
		Name: "roles.update",
		Do: func(ctx context.Context, in RoleUpdate) (models.SecurityRole, error) {
			return api.UpdateRole(ctx, in.RoleID, in.Input)
		},
		Invalidates: func(RoleUpdate) []querycache.Key { return keys(queries.Roles.All()) },
	}
}

func DeleteRole(api *backend.Client) Mutation[string, struct{}] {
	return Mutation[string, struct{}]{
		Name: "roles.delete",
		Do: func(ctx context.Context, roleID string) (struct{}, error) {
			return struct{}{}, api.DeleteRole(ctx, roleID)
		},
		Invalidates: func(string) []querycache.Key {
			// сотрудники удалённой роли переходят на роль по умолчанию
			return keys(queries.Roles.All(), queries.Staff.InternalLists(), queries.Staff.ExternalLists())
		},
	}
}

func SetDefaultRole(api *backend.Client) Mutation[string, models.SecurityRole] {
	return Mutation[string, models.SecurityRole]{
		Name:        "roles.set_default",
		Do:          api.SetDefaultRole,
		Invalidates: func(string) []querycache.Key { return keys(queries.Roles.All()) },
	}
}

// ---------- incidents ----------

func incidentKeys() []querycache.Key {
	return keys(queries.Incidents.All(), queries.Performance.All(), queries.Activity.All())
}

func ReportIncident(api *backend.Client) Mutation[backend.IncidentInput, models.Incident] {
	return Mutation[backend.IncidentInput, models.Incident]{
		Name:        "incidents.report",
		Do:          api.ReportIncident,
		Invalidates: func(backend.IncidentInput) []querycache.Key { return incidentKeys() },
	}
}

func UpdateIncident(api *backend.Client) Mutation[IncidentChange, models.Incident] {
	return Mutation[IncidentChange, models.Incident]{
		Name: "incidents.update",
		Do: func(ctx context.Context, in IncidentChange) (models.Incident, error) {
			return api.UpdateIncident(ctx, in.IncidentID, in.Input)
		},
		Invalidates: func(IncidentChange) []querycache.Key { return incidentKeys() },
	}
}

func ResolveIncident(api *backend.Client) Mutation[IncidentResolution, models.Incident] {
	return Mutation[IncidentResolution, models.Incident]{
		Name: "incidents.resolve",
		Do: func(ctx context.Context, in IncidentResolution) (models.Incident, error) {
			return api.ResolveIncident(ctx, in.IncidentID, in.Notes)
		},
		Invalidates: func(IncidentResolution) []querycache.Key { return incidentKeys() },
	}
}

// ---------- visitors ----------

func visitorAction(api *backend.Client, action string) Mutation[VisitorMove, models.VisitorLog] {
	return Mutation[VisitorMove, models.VisitorLog]{
		Name: "visitors." + action,
		Do: func(ctx context.Context, in VisitorMove) (models.VisitorLog, error) {
			return api.VisitorAction(ctx, in.VisitorID, action, in.Routing)
		},
		Invalidates: func(VisitorMove) []querycache.Key {
			return keys(queries.Visitors.All(), queries.Activity.All())
		},
	}
}

func RouteVisitor(api *backend.Client) Mutation[VisitorMove, models.VisitorLog] {
	return visitorAction(api, models.VisitorActionRoute)
}

func TransferVisitor(api *backend.Client) Mutation[VisitorMove, models.VisitorLog] {
	return visitorAction(api, models.VisitorActionTransfer)
}

func CompleteVisit(api *backend.Client) Mutation[VisitorMove, models.VisitorLog] {
	return visitorAction(api, models.VisitorActionComplete)
}

func CheckOutVisitor(api *backend.Client) Mutation[VisitorMove, models.VisitorLog] {
	return visitorAction(api, models.VisitorActionCheckOut)
}
