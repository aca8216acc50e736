package roles

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role: закрытый набор ролей службы безопасности.
type Role string

const (
	SecurityManager Role = "security_manager"
	TeamLead        Role = "team_lead"
	SecurityGuard   Role = "security_guard"
)

// All возвращает роли в порядке убывания полномочий.
func All() []Role { return []Role{SecurityManager, TeamLead, SecurityGuard} }

// Parse принимает как snake_case, так и человекочитаемые варианты ("Team Lead").
func Parse(s string) (Role, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch Role(norm) {
	case SecurityManager, TeamLead, SecurityGuard:
		return Role(norm), nil
	case "manager":
		return SecurityManager, nil
	case "lead":
		return TeamLead, nil
	case "guard":
		return SecurityGuard, nil
	}
	return "", fmt.Errorf("unknown security role %q", s)
}

func (r Role) Valid() bool {
	switch r {
	case SecurityManager, TeamLead, SecurityGuard:
		return true
	}
	return false
}

func (r Role) DisplayName() string {
	switch r {
	case SecurityManager:
		return "Security Manager"
	case TeamLead:
		return "Team Lead"
	case SecurityGuard:
		return "Security Guard"
	default:
		return string(r)
	}
}

// Capabilities: исчерпывающее сопоставление роль -> набор прав.
func (r Role) Capabilities() Capability {
	switch r {
	case SecurityManager:
		return AllCapabilities
	case TeamLead:
		return ViewStaff | ManageShifts | ViewIncidents | ReportIncidents |
			ResolveIncidents | ManageVisitors | ViewReports
	case SecurityGuard:
		return ViewStaff | ViewIncidents | ReportIncidents | ManageVisitors
	default:
		return 0
	}
}

// UnmarshalJSON принимает и неизвестные роли как есть: одна чужая запись не
// должна ломать разбор всего списка. Такая роль не Valid и прав не даёт.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if p, err := Parse(s); err == nil {
		*r = p
		return nil
	}
	*r = Role(strings.TrimSpace(s))
	return nil
}
