package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"guardhouse/internal/backend"
	"guardhouse/internal/models"
	"guardhouse/internal/password"
	"guardhouse/internal/roles"
)

const maxFormBody = 64 << 10

var errBadJSON = errors.New("request body must be a JSON object")

func decodeForm(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBody))
	dec.DisallowUnknownFields()
	// пустое тело: пустая форма; обязательные поля отловит валидация
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

// fieldErrors раскладывает ошибки ozzo по полям формы (имена из json-тегов).
func fieldErrors(err error) (map[string]string, bool) {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return nil, false
	}
	out := make(map[string]string, len(ve))
	for field, e := range ve {
		out[field] = e.Error()
	}
	return out, true
}

var (
	phoneRule = validation.Match(regexp.MustCompile(`^\+?[0-9 ()\-]{6,20}$`)).Error("must be a valid phone number")
	roleName  = validation.Match(regexp.MustCompile(`^[a-z][a-z0-9_]{1,63}$`)).Error("lowercase letters, digits and underscores")
)

func dateRule(layout, msg string) validation.Rule {
	return validation.By(func(v any) error {
		s, _ := v.(string)
		if s == "" {
			return nil
		}
		if _, err := time.Parse(layout, s); err != nil {
			return errors.New(msg)
		}
		return nil
	})
}

var staffRole = validation.By(func(v any) error {
	r, _ := v.(roles.Role)
	if r != "" && !r.Valid() {
		return errors.New("unknown role")
	}
	return nil
})

// strongPassword: пароль учётки внутреннего сотрудника должен выполнять все шесть требований.
var strongPassword = validation.By(func(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	req := password.Check(s)
	if req.All() {
		return nil
	}
	checks := []struct {
		ok   bool
		text string
	}{
		{req.Length, fmt.Sprintf("at least %d characters", password.MinLength)},
		{req.Uppercase, "an uppercase letter"},
		{req.Lowercase, "a lowercase letter"},
		{req.Digit, "a digit"},
		{req.Special, "a special character"},
		{req.NotCommon, "not a common password"},
	}
	var missing []string
	for _, c := range checks {
		if !c.ok {
			missing = append(missing, c.text)
		}
	}
	return errors.New("password needs " + strings.Join(missing, ", "))
})

// ---------- staff ----------

type staffForm struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone_number"`
	Password    string     `json:"password"`
	Role        roles.Role `json:"role"`
	GateID      string     `json:"gate_id"`
	BadgeNumber string     `json:"badge_number"`
	CompanyID   string     `json:"company_id"`

	internal bool
}

func (f staffForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.Email, validation.Required, is.EmailFormat),
		validation.Field(&f.Phone, phoneRule),
		validation.Field(&f.Role, validation.Required, staffRole),
		validation.Field(&f.Password, validation.Required.When(f.internal), validation.Empty.When(!f.internal), strongPassword),
		validation.Field(&f.CompanyID, validation.Required.When(!f.internal), validation.Empty.When(f.internal)),
		validation.Field(&f.BadgeNumber, validation.Length(0, 32)),
	)
}

func (f staffForm) input() backend.CreateStaffInput {
	in := backend.CreateStaffInput{
		FirstName:   strings.TrimSpace(f.FirstName),
		LastName:    strings.TrimSpace(f.LastName),
		Email:       strings.ToLower(strings.TrimSpace(f.Email)),
		Phone:       f.Phone,
		Password:    f.Password,
		Role:        f.Role,
		GateID:      f.GateID,
		BadgeNumber: f.BadgeNumber,
		CompanyID:   f.CompanyID,
	}
	if f.internal {
		in.Department = roles.SecurityDepartment
	}
	return in
}

type roleChangeForm struct {
	Role roles.Role `json:"role"`
}

func (f roleChangeForm) Validate() error {
	return validation.ValidateStruct(&f, validation.Field(&f.Role, validation.Required, staffRole))
}

var staffTypeRule = validation.In(models.StaffInternal, models.StaffExternal).Error("must be internal or external")

type gateChangeForm struct {
	StaffType models.StaffType `json:"staff_type"`
	GateID    string           `json:"gate_id"`
}

func (f gateChangeForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.StaffType, staffTypeRule),
		validation.Field(&f.GateID, validation.Required),
	)
}

type statusChangeForm struct {
	StaffType models.StaffType   `json:"staff_type"`
	Status    models.StaffStatus `json:"status"`
}

func (f statusChangeForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.StaffType, staffTypeRule),
		validation.Field(&f.Status, validation.Required,
			validation.In(models.StaffActive, models.StaffInactive, models.StaffSuspended).Error("must be active, inactive or suspended")),
	)
}

type companyForm struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone_number"`
}

func (f companyForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&f.ContactEmail, is.EmailFormat),
		validation.Field(&f.Phone, phoneRule),
	)
}

// ---------- shifts ----------

type shiftForm struct {
	StaffID   string `json:"staff_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	GateID    string `json:"gate_id"`
	Notes     string `json:"notes"`
}

func (f shiftForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.StaffID, validation.Required),
		validation.Field(&f.Date, validation.Required, dateRule(models.DateLayout, "must be YYYY-MM-DD")),
		validation.Field(&f.StartTime, validation.Required, dateRule(models.ClockLayout, "must be HH:MM")),
		validation.Field(&f.EndTime, validation.Required, dateRule(models.ClockLayout, "must be HH:MM"),
			validation.NotIn(f.StartTime).Error("must differ from start time")),
		validation.Field(&f.GateID, validation.Required),
		validation.Field(&f.Notes, validation.Length(0, 1000)),
	)
}

func (f shiftForm) input() backend.ShiftInput {
	return backend.ShiftInput(f)
}

type shiftActionForm struct {
	Reason string `json:"reason"`
}

func (f shiftActionForm) validateFor(action string) error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Reason, validation.Required.When(action == "cancel"), validation.Length(0, 500)),
	)
}

// ---------- roles ----------

type roleForm struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	IsDefault   bool     `json:"is_default"`
}

func (f roleForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, roleName),
		validation.Field(&f.DisplayName, validation.Required, validation.Length(2, 100)),
		validation.Field(&f.Description, validation.Length(0, 500)),
		validation.Field(&f.Permissions, validation.Required, validation.By(func(v any) error {
			perms, _ := v.([]string)
			if _, unknown := roles.ParsePermissions(perms); len(unknown) > 0 {
				return fmt.Errorf("unknown permissions: %s", strings.Join(unknown, ", "))
			}
			return nil
		})),
	)
}

func (f roleForm) input() backend.RoleInput { return backend.RoleInput(f) }

// ---------- incidents ----------

var severityRule = validation.In(models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical).
	Error("must be low, medium, high or critical")

type incidentForm struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Severity    models.Severity `json:"severity"`
	Location    string          `json:"location"`
	GateID      string          `json:"gate_id"`
	OccurredAt  string          `json:"occurred_at"`
}

func (f incidentForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&f.Description, validation.Length(0, 4000)),
		validation.Field(&f.Severity, validation.Required, severityRule),
		validation.Field(&f.Location, validation.Required),
		validation.Field(&f.OccurredAt, dateRule(time.RFC3339, "must be an RFC 3339 timestamp")),
	)
}

func (f incidentForm) input() backend.IncidentInput { return backend.IncidentInput(f) }

type incidentUpdateForm struct {
	Severity    models.Severity       `json:"severity"`
	Status      models.IncidentStatus `json:"status"`
	Description string                `json:"description"`
}

func (f incidentUpdateForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Severity, severityRule),
		// закрытие только через resolve: там обязательны заметки
		validation.Field(&f.Status, validation.In(models.IncidentOpen, models.IncidentInvestigating).
			Error("must be open or investigating; use resolve to close")),
		validation.Field(&f.Description, validation.Length(0, 4000)),
	)
}

type resolveForm struct {
	Notes string `json:"resolution_notes"`
}

func (f resolveForm) Validate() error {
	return validation.ValidateStruct(&f, validation.Field(&f.Notes, validation.Required, validation.Length(3, 4000)))
}

// ---------- visitors ----------

type visitorForm struct {
	CurrentStatus models.VisitorStatus `json:"current_status"`
	Department    string               `json:"department"`
	StaffID       string               `json:"staff_id"`
	Reason        string               `json:"reason"`
}

func (f visitorForm) validateFor(action string) error {
	needsTarget := action == models.VisitorActionRoute || action == models.VisitorActionTransfer
	return validation.ValidateStruct(&f,
		validation.Field(&f.CurrentStatus, validation.By(func(v any) error {
			s, _ := v.(models.VisitorStatus)
			if s == "" {
				return nil
			}
			if !models.ValidVisitorTransition(action, s) {
				return fmt.Errorf("cannot %s a visitor who is %s", strings.ReplaceAll(action, "_", " "), s)
			}
			return nil
		})),
		validation.Field(&f.Department, validation.Required.When(needsTarget && f.StaffID == "").Error("department or staff is required")),
		validation.Field(&f.Reason, validation.Required.When(action == models.VisitorActionTransfer)),
	)
}

func (f visitorForm) routing() backend.VisitorRouting {
	return backend.VisitorRouting{Department: f.Department, StaffID: f.StaffID, Reason: f.Reason}
}
