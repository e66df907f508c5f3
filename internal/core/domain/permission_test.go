package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWithSections(sections ...Section) *PermissionSnapshot {
	return &PermissionSnapshot{
		TeamAndRole: []TeamRole{
			{TeamName: "operations", Roles: []Role{{RoleName: "OPERATOR"}}},
		},
		Sections: sections,
	}
}

func TestEvaluateAdminOverrideIsAbsolute(t *testing.T) {
	e := NewEvaluator()
	admin := &PermissionSnapshot{
		TeamAndRole: []TeamRole{
			{TeamName: "sales", Roles: []Role{{RoleName: "VIEWER"}}},
			{TeamName: "management", Roles: []Role{{RoleName: AdminRoleName}}},
		},
		// Sections deliberately empty: admin must win regardless.
	}

	modules := []string{"products", "sales", "operations", "admin", "management", "no-such-module"}
	actions := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	for _, m := range modules {
		for _, a := range actions {
			assert.True(t, e.Evaluate(admin, m, "anything", a), "admin denied %s/%s", m, a)
			assert.True(t, e.Evaluate(admin, m, "", a))
		}
	}
}

func TestEvaluateDenyByDefault(t *testing.T) {
	e := NewEvaluator()
	snap := snapshotWithSections() // no sections, no ADMIN

	assert.False(t, e.Evaluate(snap, "sales", "orders", ActionRead))
	assert.False(t, e.Evaluate(snap, "sales", "", ActionRead))
	assert.False(t, e.Evaluate(snap, "admin", "roles", ActionDelete))

	// Always-allowed surfaces pass through at module level only.
	for _, m := range DefaultAlwaysAllowed {
		assert.True(t, e.Evaluate(snap, m, "", ActionRead), "always-allowed %s denied", m)
	}

	// Nil snapshot and blank module map to deny, never panic.
	assert.False(t, e.Evaluate(nil, "sales", "orders", ActionRead))
	assert.False(t, e.Evaluate(snap, "", "", ActionRead))
}

func TestEvaluatePermissionIndependence(t *testing.T) {
	e := NewEvaluator()
	snap := snapshotWithSections(Section{
		ModuleName: "sales",
		SubModules: []SubModulePermission{
			{SubModuleName: "orders", Permissions: Permissions{Read: true}},
		},
	})

	assert.True(t, e.Evaluate(snap, "sales", "orders", ActionRead))
	assert.False(t, e.Evaluate(snap, "sales", "orders", ActionCreate))
	assert.False(t, e.Evaluate(snap, "sales", "orders", ActionUpdate))
	assert.False(t, e.Evaluate(snap, "sales", "orders", ActionDelete))

	// Unknown submodule within a granted module still denies.
	assert.False(t, e.Evaluate(snap, "sales", "refunds", ActionRead))
	// Module-level check succeeds on section presence alone.
	assert.True(t, e.Evaluate(snap, "sales", "", ActionRead))
}

func TestEvaluateCustomAlwaysAllowed(t *testing.T) {
	e := &Evaluator{AlwaysAllowed: []string{"help"}}
	snap := snapshotWithSections()

	assert.True(t, e.Evaluate(snap, "help", "", ActionRead))
	// The defaults are no longer special once the allowlist is replaced.
	assert.False(t, e.Evaluate(snap, "dashboard", "", ActionRead))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Read ")
	require.NoError(t, err)
	assert.Equal(t, ActionRead, a)

	_, err = ParseAction("execute")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestRoleValidate(t *testing.T) {
	valid := &Role{
		RoleName: "PUMP_MANAGER",
		Sections: []Section{
			{
				ModuleName: "operations",
				SubModules: []SubModulePermission{
					{SubModuleName: "pumps", Permissions: Permissions{Read: true, Update: true}},
				},
			},
		},
	}
	require.NoError(t, valid.Validate())

	assert.ErrorIs(t, (&Role{RoleName: "  "}).Validate(), ErrEmptyRoleName)

	noModule := &Role{RoleName: "X", Sections: []Section{{ModuleName: ""}}}
	assert.ErrorIs(t, noModule.Validate(), ErrEmptyModuleName)

	allFalse := &Role{RoleName: "X", Sections: []Section{
		{ModuleName: "sales", SubModules: []SubModulePermission{{SubModuleName: "orders"}}},
	}}
	assert.ErrorIs(t, allFalse.Validate(), ErrEmptyPermissions)
}

func TestFilterNavPreservesOrderAndDropsEmptyModules(t *testing.T) {
	e := NewEvaluator()
	tree := []NavModule{
		{ModuleName: "dashboard", Path: "/dashboard", AlwaysAllowed: true},
		{ModuleName: "products", Path: "/products", SubModules: []NavItem{
			{SubModuleName: "catalog", Path: "/products/catalog"},
			{SubModuleName: "pricing", Path: "/products/pricing"},
		}},
		{ModuleName: "sales", Path: "/sales", SubModules: []NavItem{
			{SubModuleName: "orders", Path: "/sales/orders"},
		}},
	}
	snap := snapshotWithSections(Section{
		ModuleName: "products",
		SubModules: []SubModulePermission{
			{SubModuleName: "pricing", Permissions: Permissions{Read: true}},
		},
	})

	visible := e.FilterNav(tree, snap)
	require.Len(t, visible, 2)
	assert.Equal(t, "dashboard", visible[0].ModuleName)
	assert.Equal(t, "products", visible[1].ModuleName)
	require.Len(t, visible[1].SubModules, 1)
	assert.Equal(t, "pricing", visible[1].SubModules[0].SubModuleName)
}

func TestFilterNavAdminSeesEverything(t *testing.T) {
	e := NewEvaluator()
	tree := []NavModule{
		{ModuleName: "admin", Path: "/admin", SubModules: []NavItem{
			{SubModuleName: "roles", Path: "/admin/roles"},
		}},
	}
	admin := &PermissionSnapshot{TeamAndRole: []TeamRole{
		{TeamName: "hq", Roles: []Role{{RoleName: AdminRoleName}}},
	}}

	visible := e.FilterNav(tree, admin)
	require.Len(t, visible, 1)
	assert.Len(t, visible[0].SubModules, 1)
}
