package roles

import (
	"sort"
	"strings"
)

// Capability: битовый набор прав в консоли.
type Capability uint16

const (
	ViewStaff Capability = 1 << iota
	ManageStaff
	ManageShifts
	ManageRoles
	ViewIncidents
	ReportIncidents
	ResolveIncidents
	ManageVisitors
	ViewReports

	AllCapabilities = ViewStaff | ManageStaff | ManageShifts | ManageRoles | ViewIncidents |
		ReportIncidents | ResolveIncidents | ManageVisitors | ViewReports
)

// строковые имена прав в формате бэкенда (resource:action)
var capabilityNames = map[Capability]string{
	ViewStaff:        "staff:view",
	ManageStaff:      "staff:manage",
	ManageShifts:     "shifts:manage",
	ManageRoles:      "roles:manage",
	ViewIncidents:    "incidents:view",
	ReportIncidents:  "incidents:report",
	ResolveIncidents: "incidents:resolve",
	ManageVisitors:   "visitors:manage",
	ViewReports:      "reports:view",
}

func (c Capability) Has(want Capability) bool { return want != 0 && c&want == want }

// Strings возвращает отсортированные имена прав.
func (c Capability) Strings() []string {
	out := make([]string, 0, len(capabilityNames))
	for bit, name := range capabilityNames {
		if c&bit != 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (c Capability) String() string { return strings.Join(c.Strings(), ",") }

// ParsePermissions переводит строки прав роли (как их отдаёт бэкенд) в набор.
// Неизвестные строки возвращаются отдельно, чтобы их можно было залогировать.
func ParsePermissions(perms []string) (Capability, []string) {
	var (
		c       Capability
		unknown []string
	)
	for _, p := range perms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if p == "*" || p == "all" {
			c |= AllCapabilities
			continue
		}
		found := false
		for bit, name := range capabilityNames {
			if name == p {
				c |= bit
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, p)
		}
	}
	return c, unknown
}
