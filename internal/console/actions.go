package console

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"

	"guardhouse/internal/backend"
	"guardhouse/internal/models"
	"guardhouse/internal/mutations"
)

type mutationResult struct {
	Mutation string `json:"mutation"`
	Data     any    `json:"data,omitempty"`
}

// bind разбирает и проверяет форму; при ошибке ответ уже записан.
func bind(w http.ResponseWriter, r *http.Request, form any, validate func() error) bool {
	if err := decodeForm(w, r, form); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return false
	}
	if err := validate(); err != nil {
		if fields, ok := fieldErrors(err); ok {
			models.WriteFieldErrors(w, fields)
			return false
		}
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return false
	}
	return true
}

func runMutation[In, Out any](h *Handler, w http.ResponseWriter, r *http.Request, m *mutations.Handle[In, Out], in In, okStatus int) {
	out, err := m.MutateAsync(r.Context(), in)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	h.d.Log.WithField("mutation", m.Name()).Info("mutation applied")
	models.WriteJSON(w, okStatus, mutationResult{Mutation: m.Name(), Data: out})
}

// writeBackendError: ошибка бэкенда в problem+json; текст отказа показываем как есть.
func writeBackendError(w http.ResponseWriter, err error) {
	var ae *backend.APIError
	switch {
	case errors.Is(err, backend.ErrUnauthorized), errors.Is(err, backend.ErrNoToken):
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "Your session has expired. Please sign in again.", nil)
	case errors.Is(err, backend.ErrForbidden):
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", err.Error(), nil)
	case errors.Is(err, backend.ErrNotFound):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, backend.ErrTransport):
		models.WriteProblem(w, http.StatusBadGateway, "Backend Unreachable", "The server is unreachable. Check the connection and retry.", nil)
	case errors.As(err, &ae):
		models.WriteProblem(w, http.StatusUnprocessableEntity, "Rejected", ae.Message, map[string]any{"backend_status": ae.HTTPStatus})
	default:
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
	}
}

// ---------- staff ----------

func (h *Handler) createStaff(w http.ResponseWriter, r *http.Request, internal bool) {
	f := staffForm{internal: internal}
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	m := h.d.Mutations.CreateExternalStaff
	if internal {
		m = h.d.Mutations.CreateInternalStaff
	}
	runMutation(h, w, r, m, f.input(), http.StatusCreated)
}

func (h *Handler) CreateInternalStaff(w http.ResponseWriter, r *http.Request) {
	h.createStaff(w, r, true)
}

func (h *Handler) CreateExternalStaff(w http.ResponseWriter, r *http.Request) {
	h.createStaff(w, r, false)
}

func (h *Handler) UpdateStaffRole(w http.ResponseWriter, r *http.Request) {
	var f roleChangeForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	in := mutations.StaffRoleChange{StaffID: mux.Vars(r)["id"], Role: f.Role}
	runMutation(h, w, r, h.d.Mutations.UpdateStaffRole, in, http.StatusOK)
}

func (h *Handler) UpdateStaffGate(w http.ResponseWriter, r *http.Request) {
	var f gateChangeForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	in := mutations.StaffGateChange{StaffID: mux.Vars(r)["id"], StaffType: f.StaffType, GateID: f.GateID}
	runMutation(h, w, r, h.d.Mutations.UpdateStaffGate, in, http.StatusOK)
}

func (h *Handler) UpdateStaffStatus(w http.ResponseWriter, r *http.Request) {
	var f statusChangeForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	in := mutations.StaffStatusChange{StaffID: mux.Vars(r)["id"], StaffType: f.StaffType, Status: f.Status}
	runMutation(h, w, r, h.d.Mutations.UpdateStaffStatus, in, http.StatusOK)
}

// RemoveStaff: тип сотрудника приходит в ?type=, без него сбрасываются оба списка.
func (h *Handler) RemoveStaff(w http.ResponseWriter, r *http.Request) {
	t := models.StaffType(r.URL.Query().Get("type"))
	if err := validation.Validate(t, staffTypeRule); err != nil {
		models.WriteFieldErrors(w, map[string]string{"type": err.Error()})
		return
	}
	in := mutations.StaffRef{StaffID: mux.Vars(r)["id"], StaffType: t}
	runMutation(h, w, r, h.d.Mutations.RemoveStaff, in, http.StatusOK)
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var f companyForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	in := backend.CreateCompanyInput{Name: f.Name, ContactName: f.ContactName, ContactEmail: f.ContactEmail, Phone: f.Phone}
	runMutation(h, w, r, h.d.Mutations.CreateCompany, in, http.StatusCreated)
}

// ---------- shifts ----------

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var f shiftForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	runMutation(h, w, r, h.d.Mutations.CreateShift, f.input(), http.StatusCreated)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var f shiftForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	in := mutations.ShiftUpdate{ShiftID: mux.Vars(r)["id"], Input: f.input()}
	runMutation(h, w, r, h.d.Mutations.UpdateShift, in, http.StatusOK)
}

func (h *Handler) ShiftTransition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	action := vars["action"]
	var f shiftActionForm
	if !bind(w, r, &f, func() error { return f.validateFor(action) }) {
		return
	}
	m := map[string]*mutations.Handle[mutations.ShiftAction, models.ShiftAssignment]{
		"cancel":   h.d.Mutations.CancelShift,
		"start":    h.d.Mutations.StartShift,
		"complete": h.d.Mutations.CompleteShift,
	}[action]
	runMutation(h, w, r, m, mutations.ShiftAction{ShiftID: vars["id"], Reason: f.Reason}, http.StatusOK)
}

// ---------- roles ----------

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var f roleForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	runMutation(h, w, r, h.d.Mutations.CreateRole, f.input(), http.StatusCreated)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var f roleForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	in := mutations.RoleUpdate{RoleID: mux.Vars(r)["id"], Input: f.input()}
	runMutation(h, w, r, h.d.Mutations.UpdateRole, in, http.StatusOK)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	runMutation(h, w, r, h.d.Mutations.DeleteRole, mux.Vars(r)["id"], http.StatusOK)
}

func (h *Handler) SetDefaultRole(w http.ResponseWriter, r *http.Request) {
	runMutation(h, w, r, h.d.Mutations.SetDefaultRole, mux.Vars(r)["id"], http.StatusOK)
}

// ---------- incidents ----------

func (h *Handler) ReportIncident(w http.ResponseWriter, r *http.Request) {
	var f incidentForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	runMutation(h, w, r, h.d.Mutations.ReportIncident, f.input(), http.StatusCreated)
}

func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	var f incidentUpdateForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	in := mutations.IncidentChange{
		IncidentID: mux.Vars(r)["id"],
		Input:      backend.IncidentUpdate{Severity: f.Severity, Status: f.Status, Description: f.Description},
	}
	runMutation(h, w, r, h.d.Mutations.UpdateIncident, in, http.StatusOK)
}

func (h *Handler) ResolveIncident(w http.ResponseWriter, r *http.Request) {
	var f resolveForm
	if !bind(w, r, &f, func() error { return f.Validate() }) {
		return
	}
	in := mutations.IncidentResolution{IncidentID: mux.Vars(r)["id"], Notes: f.Notes}
	runMutation(h, w, r, h.d.Mutations.ResolveIncident, in, http.StatusOK)
}

// ---------- visitors ----------

func (h *Handler) VisitorAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	action := vars["action"]
	var f visitorForm
	if !bind(w, r, &f, func() error { return f.validateFor(action) }) {
		return
	}
	m := map[string]*mutations.Handle[mutations.VisitorMove, models.VisitorLog]{
		models.VisitorActionRoute:    h.d.Mutations.RouteVisitor,
		models.VisitorActionTransfer: h.d.Mutations.TransferVisitor,
		models.VisitorActionComplete: h.d.Mutations.CompleteVisit,
		models.VisitorActionCheckOut: h.d.Mutations.CheckOutVisitor,
	}[action]
	runMutation(h, w, r, m, mutations.VisitorMove{VisitorID: vars["id"], Routing: f.routing()}, http.StatusOK)
}
