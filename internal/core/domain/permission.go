package domain

import "strings"

// AdminRoleName grants implicit access to every module, submodule and action.
const AdminRoleName = "ADMIN"

// Action is a CRUD permission action
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseAction parses an action string. Unknown actions return ErrUnknownAction
// so callers fall back to deny-by-default.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionCreate:
		return ActionCreate, nil
	case ActionRead:
		return ActionRead, nil
	case ActionUpdate:
		return ActionUpdate, nil
	case ActionDelete:
		return ActionDelete, nil
	}
	return "", ErrUnknownAction
}

// Permissions holds the four independent CRUD grants for a submodule.
// All default to false; granting one never implies another.
type Permissions struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// Allows returns the grant for a single action
func (p Permissions) Allows(action Action) bool {
	switch action {
	case ActionCreate:
		return p.Create
	case ActionRead:
		return p.Read
	case ActionUpdate:
		return p.Update
	case ActionDelete:
		return p.Delete
	}
	return false
}

// IsEmpty reports whether the entry grants nothing. An all-false entry is
// equivalent to no access and is rejected at the deserialization boundary.
func (p Permissions) IsEmpty() bool {
	return !p.Create && !p.Read && !p.Update && !p.Delete
}

// SubModulePermission is a permission entry for one feature screen
type SubModulePermission struct {
	SubModuleName string      `json:"sub_module_name"`
	Permissions   Permissions `json:"permissions"`
}

// Section is a module grant within a role
type Section struct {
	ModuleName string                `json:"module_name"`
	SubModules []SubModulePermission `json:"sub_modules"`
}

// Role is a named set of section grants
type Role struct {
	RoleID   uint      `json:"role_id"`
	RoleName string    `json:"role_name"`
	Sections []Section `json:"sections"`
}

// Validate rejects malformed role data at the deserialization boundary so bad
// backend payloads fail fast instead of silently denying or allowing.
func (r *Role) Validate() error {
	if strings.TrimSpace(r.RoleName) == "" {
		return ErrEmptyRoleName
	}
	for _, section := range r.Sections {
		if strings.TrimSpace(section.ModuleName) == "" {
			return ErrEmptyModuleName
		}
		for _, sub := range section.SubModules {
			if strings.TrimSpace(sub.SubModuleName) == "" {
				return ErrEmptyModuleName
			}
			if sub.Permissions.IsEmpty() {
				return ErrEmptyPermissions
			}
		}
	}
	return nil
}

// TeamRole is one team membership with its assigned roles
type TeamRole struct {
	TeamName string `json:"team_name"`
	Roles    []Role `json:"roles"`
}

// PermissionSnapshot is the resolved permission view of a user: team/role
// assignments plus the flattened module -> submodule -> permission grants.
// It is what clients persist locally and rehydrate on load.
type PermissionSnapshot struct {
	TeamAndRole []TeamRole `json:"team_and_role"`
	Sections    []Section  `json:"sections"`
}

// IsAdmin reports whether any assigned role across any team membership is the
// ADMIN role. Admin access overrides the explicit sections list entirely.
func (s *PermissionSnapshot) IsAdmin() bool {
	if s == nil {
		return false
	}
	for _, team := range s.TeamAndRole {
		for _, role := range team.Roles {
			if role.RoleName == AdminRoleName {
				return true
			}
		}
	}
	return false
}

// Evaluator decides allow/deny for (module, submodule, action) triples.
// AlwaysAllowed is the configurable list of module-level surfaces that bypass
// the section lookup (navigation targets every authenticated user may open).
type Evaluator struct {
	AlwaysAllowed []string
}

// DefaultAlwaysAllowed are the surfaces reachable by every authenticated user.
var DefaultAlwaysAllowed = []string{"dashboard", "profile", "settings"}

// NewEvaluator creates an evaluator with the default always-allowed surfaces
func NewEvaluator() *Evaluator {
	return &Evaluator{AlwaysAllowed: DefaultAlwaysAllowed}
}

// Evaluate decides whether the snapshot grants the action on the given module
// and submodule. Pure and total: absent or malformed input denies. A blank
// submodule means a module-level check, satisfied by the presence of the
// module section itself.
func (e *Evaluator) Evaluate(snap *PermissionSnapshot, module, subModule string, action Action) bool {
	if snap == nil || module == "" {
		return false
	}

	// 1. Admin override is absolute
	if snap.IsAdmin() {
		return true
	}

	// 2. Always-allowed surfaces bypass the section lookup (module-level only)
	if subModule == "" {
		for _, allowed := range e.AlwaysAllowed {
			if allowed == module {
				return true
			}
		}
	}

	// 3. Section lookup, deny-by-default
	for _, section := range snap.Sections {
		if section.ModuleName != module {
			continue
		}
		if subModule == "" {
			return true
		}
		for _, sub := range section.SubModules {
			if sub.SubModuleName == subModule {
				return sub.Permissions.Allows(action)
			}
		}
		return false
	}
	return false
}

// NavItem is one feature screen inside a navigation module
type NavItem struct {
	SubModuleName string `json:"sub_module_name"`
	Path          string `json:"path"`
}

// NavModule is one top-level entry of the navigation tree
type NavModule struct {
	ModuleName    string    `json:"module_name"`
	Path          string    `json:"path"`
	AlwaysAllowed bool      `json:"always_allowed"`
	SubModules    []NavItem `json:"sub_modules"`
}

// FilterNav returns the subset of the navigation tree the snapshot may read,
// preserving the original ordering. Modules whose submodules are all denied
// are omitted; top-level-only entries pass through the always-allowed flag or
// an explicit module-level grant.
func (e *Evaluator) FilterNav(tree []NavModule, snap *PermissionSnapshot) []NavModule {
	visible := make([]NavModule, 0, len(tree))
	for _, module := range tree {
		if len(module.SubModules) == 0 {
			if module.AlwaysAllowed || e.Evaluate(snap, module.ModuleName, "", ActionRead) {
				visible = append(visible, module)
			}
			continue
		}

		var items []NavItem
		for _, item := range module.SubModules {
			if e.Evaluate(snap, module.ModuleName, item.SubModuleName, ActionRead) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		filtered := module
		filtered.SubModules = items
		visible = append(visible, filtered)
	}
	return visible
}
