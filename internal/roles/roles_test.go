package roles

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"security_manager", SecurityManager, true},
		{"Team Lead", TeamLead, true},
		{"security-guard", SecurityGuard, true},
		{"guard", SecurityGuard, true},
		{"janitor", "", false},
		{"", "", false},
	}
	for _, tt := range cases {
		got, err := Parse(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got, tt.in)
		} else {
			assert.Error(t, err, tt.in)
		}
	}
}

func TestEveryRoleHasCapabilities(t *testing.T) {
	for _, r := range All() {
		assert.True(t, r.Valid())
		assert.NotZero(t, r.Capabilities(), r)
		assert.True(t, r.Capabilities().Has(ViewStaff), r)
	}
	assert.Zero(t, Role("intern").Capabilities())
	assert.Equal(t, AllCapabilities, SecurityManager.Capabilities())
	assert.False(t, TeamLead.Capabilities().Has(ManageRoles))
	assert.False(t, SecurityGuard.Capabilities().Has(ResolveIncidents))
}

func TestRoleUnmarshalKeepsUnknownWithoutCapabilities(t *testing.T) {
	var v struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"Team Lead"}`), &v))
	assert.Equal(t, TeamLead, v.Role)

	require.NoError(t, json.Unmarshal([]byte(`{"role":"pilot"}`), &v))
	assert.Equal(t, Role("pilot"), v.Role)
	assert.False(t, v.Role.Valid())
	assert.Zero(t, v.Role.Capabilities())

	require.NoError(t, json.Unmarshal([]byte(`{"role":""}`), &v))
	assert.Empty(t, v.Role)
	assert.Error(t, json.Unmarshal([]byte(`{"role":7}`), &v))
}

func TestParsePermissions(t *testing.T) {
	c, unknown := ParsePermissions([]string{"staff:view", "Incidents:Resolve", "fly:plane", ""})
	assert.True(t, c.Has(ViewStaff|ResolveIncidents))
	assert.False(t, c.Has(ManageRoles))
	assert.Equal(t, []string{"fly:plane"}, unknown)

	all, _ := ParsePermissions([]string{"*"})
	assert.Equal(t, AllCapabilities, all)
	assert.Equal(t, []string{"incidents:resolve", "staff:view"}, c.Strings())
}

func TestPrincipalCapabilities(t *testing.T) {
	owner := Principal{Account: AccountOrganization}
	assert.Equal(t, AllCapabilities, owner.Capabilities())

	lead := Principal{Account: AccountStaff, StaffRole: TeamLead, Department: "Security"}
	assert.True(t, lead.Can(ManageShifts))
	assert.False(t, lead.Can(ManageStaff))

	// сотрудник другого отдела консоль не видит вовсе
	cashier := Principal{Account: AccountStaff, StaffRole: SecurityManager, Department: "finance"}
	assert.Zero(t, cashier.Capabilities())

	assert.Zero(t, Principal{}.Capabilities())
	assert.Equal(t, AccountOrganization, ParseAccountKind("Organization"))
	assert.Equal(t, AccountUnknown, ParseAccountKind("visitor"))
}
