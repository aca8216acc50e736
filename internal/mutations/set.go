package mutations

import (
	"github.com/sirupsen/logrus"

	"guardhouse/internal/backend"
	"guardhouse/internal/models"
	"guardhouse/internal/querycache"
	"guardhouse/internal/roles"
)

// Set: все мутации консоли, привязанные к одному кэшу.
type Set struct {
	CreateInternalStaff *Handle[backend.CreateStaffInput, models.Staff]
	CreateExternalStaff *Handle[backend.CreateStaffInput, models.Staff]
	UpdateStaffRole     *Handle[StaffRoleChange, models.Staff]
	UpdateStaffGate     *Handle[StaffGateChange, models.Staff]
	UpdateStaffStatus   *Handle[StaffStatusChange, models.Staff]
	RemoveStaff         *Handle[StaffRef, struct{}]
	CreateCompany       *Handle[backend.CreateCompanyInput, models.Company]

	CreateShift   *Handle[backend.ShiftInput, models.ShiftAssignment]
	UpdateShift   *Handle[ShiftUpdate, models.ShiftAssignment]
	CancelShift   *Handle[ShiftAction, models.ShiftAssignment]
	StartShift    *Handle[ShiftAction, models.ShiftAssignment]
	CompleteShift *Handle[ShiftAction, models.ShiftAssignment]

	CreateRole     *Handle[backend.RoleInput, models.SecurityRole]
	UpdateRole     *Handle[RoleUpdate, models.SecurityRole]
	DeleteRole     *Handle[string, struct{}]
	SetDefaultRole *Handle[string, models.SecurityRole]

	ReportIncident  *Handle[backend.IncidentInput, models.Incident]
	UpdateIncident  *Handle[IncidentChange, models.Incident]
	ResolveIncident *Handle[IncidentResolution, models.Incident]

	RouteVisitor    *Handle[VisitorMove, models.VisitorLog]
	TransferVisitor *Handle[VisitorMove, models.VisitorLog]
	CompleteVisit   *Handle[VisitorMove, models.VisitorLog]
	CheckOutVisitor *Handle[VisitorMove, models.VisitorLog]
}

func NewSet(api *backend.Client, cache *querycache.Cache, log *logrus.Entry) *Set {
	return &Set{
		CreateInternalStaff: Bind(CreateInternalStaff(api), cache, log),
		CreateExternalStaff: Bind(CreateExternalStaff(api), cache, log),
		UpdateStaffRole:     Bind(UpdateStaffRole(api), cache, log),
		UpdateStaffGate:     Bind(UpdateStaffGate(api), cache, log),
		UpdateStaffStatus:   Bind(UpdateStaffStatus(api), cache, log),
		RemoveStaff:         Bind(RemoveStaff(api), cache, log),
		CreateCompany:       Bind(CreateCompany(api), cache, log),

		CreateShift:   Bind(CreateShift(api), cache, log),
		UpdateShift:   Bind(UpdateShift(api), cache, log),
		CancelShift:   Bind(CancelShift(api), cache, log),
		StartShift:    Bind(StartShift(api), cache, log),
		CompleteShift: Bind(CompleteShift(api), cache, log),

		CreateRole:     Bind(CreateRole(api), cache, log),
		UpdateRole:     Bind(UpdateRole(api), cache, log),
		DeleteRole:     Bind(DeleteRole(api), cache, log),
		SetDefaultRole: Bind(SetDefaultRole(api), cache, log),

		ReportIncident:  Bind(ReportIncident(api), cache, log),
		UpdateIncident:  Bind(UpdateIncident(api), cache, log),
		ResolveIncident: Bind(ResolveIncident(api), cache, log),

		RouteVisitor:    Bind(RouteVisitor(api), cache, log),
		TransferVisitor: Bind(TransferVisitor(api), cache, log),
		CompleteVisit:   Bind(CompleteVisit(api), cache, log),
		CheckOutVisitor: Bind(CheckOutVisitor(api), cache, log),
	}
}

// AuditEntry: объявленный набор инвалидации одной мутации на образцовом входе.
type AuditEntry struct {
	Name        string           `json:"name"`
	Invalidates []querycache.Key `json:"invalidates"`
}

func audit[In, Out any](m Mutation[In, Out], sample In) AuditEntry {
	return AuditEntry{Name: m.Name, Invalidates: m.Invalidates(sample)}
}

// Audit перечисляет каждую мутацию и её префиксы инвалидации.
// Идентификаторы в образцах условные: "{id}".
func Audit() []AuditEntry {
	const id = "{id}"
	var api *backend.Client // Do не вызывается
	return []AuditEntry{
		audit(CreateInternalStaff(api), backend.CreateStaffInput{}),
		audit(CreateExternalStaff(api), backend.CreateStaffInput{}),
		audit(UpdateStaffRole(api), StaffRoleChange{StaffID: id, Role: roles.SecurityGuard}),
		audit(UpdateStaffGate(api), StaffGateChange{StaffID: id, StaffType: models.StaffInternal}),
		audit(UpdateStaffStatus(api), StaffStatusChange{StaffID: id, StaffType: models.StaffInternal}),
		audit(RemoveStaff(api), StaffRef{StaffID: id, StaffType: models.StaffInternal}),
		audit(CreateCompany(api), backend.CreateCompanyInput{}),
		audit(CreateShift(api), backend.ShiftInput{}),
		audit(UpdateShift(api), ShiftUpdate{ShiftID: id}),
		audit(CancelShift(api), ShiftAction{ShiftID: id}),
		audit(StartShift(api), ShiftAction{ShiftID: id}),
		audit(CompleteShift(api), ShiftAction{ShiftID: id}),
		audit(CreateRole(api), backend.RoleInput{}),
		audit(UpdateRole(api), RoleUpdate{RoleID: id}),
		audit(DeleteRole(api), id),
		audit(SetDefaultRole(api), id),
		audit(ReportIncident(api), backend.IncidentInput{}),
		audit(UpdateIncident(api), IncidentChange{IncidentID: id}),
		audit(ResolveIncident(api), IncidentResolution{IncidentID: id}),
		audit(RouteVisitor(api), VisitorMove{VisitorID: id}),
		audit(TransferVisitor(api), VisitorMove{VisitorID: id}),
		audit(CompleteVisit(api), VisitorMove{VisitorID: id}),
		audit(CheckOutVisitor(api), VisitorMove{VisitorID: id}),
	}
}
