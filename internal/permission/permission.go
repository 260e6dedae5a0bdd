// Package permission defines the canonical permission-code vocabulary and
// the codec between the admin editor's checkbox matrix and flat code lists.
package permission

import "strings"

type Module string

const (
	ModuleDashboard  Module = "dashboard"
	ModuleUsers      Module = "users"
	ModuleRoles      Module = "roles"
	ModuleAttendance Module = "attendance"
	ModuleCustomers  Module = "customers"
	ModuleHR         Module = "hr"
	ModuleGenerators Module = "generator_management"
	ModuleSites      Module = "site_management"
	ModuleInventory  Module = "inventory"
	ModuleTasks      Module = "tasks"
	ModuleAlerts     Module = "alerts"
	ModuleReports    Module = "reports"
	ModuleAdmin      Module = "admin"
)

// Modules is the enumeration order used for stable encoding.
var Modules = []Module{
	ModuleDashboard,
	ModuleUsers,
	ModuleRoles,
	ModuleAttendance,
	ModuleCustomers,
	ModuleHR,
	ModuleGenerators,
	ModuleSites,
	ModuleInventory,
	ModuleTasks,
	ModuleAlerts,
	ModuleReports,
	ModuleAdmin,
}

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
	ActionAccess Action = "access"
	ActionView   Action = "view"
)

// crudActions is the action enumeration order used for stable encoding.
var crudActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

var validActions = map[Action]bool{
	ActionCreate: true,
	ActionRead:   true,
	ActionUpdate: true,
	ActionDelete: true,
	ActionManage: true,
	ActionAccess: true,
	ActionView:   true,
}

// singleAccessCodes maps modules whose "module access" is a single
// dedicated code rather than a manage code. This is a fixed lookup
// table; do not infer it from naming.
var singleAccessCodes = map[Module]string{
	ModuleDashboard: "dashboard:read",
	ModuleAlerts:    "alerts:read",
	ModuleReports:   "global_reports:view",
}

var validModules = func() map[Module]bool {
	m := make(map[Module]bool, len(Modules))
	for _, mod := range Modules {
		m[mod] = true
	}
	return m
}()

// AdminManageCode survives every encode/decode of an admin-class role.
const AdminManageCode = "admin:manage"

// AccessCode returns the code that grants "module access" for m.
func AccessCode(m Module) string {
	if code, ok := singleAccessCodes[m]; ok {
		return code
	}
	return string(m) + ":" + string(ActionManage)
}

// Code builds a module:action code.
func Code(m Module, a Action) string {
	return string(m) + ":" + string(a)
}

// ParseCode splits a canonical code into module and action. Malformed
// codes (missing separator, empty parts) report ok=false and are
// dropped by the codec, never propagated.
func ParseCode(code string) (module, action string, ok bool) {
	idx := strings.IndexByte(code, ':')
	if idx <= 0 || idx == len(code)-1 {
		return "", "", false
	}
	return code[:idx], code[idx+1:], true
}

// IsWellFormed reports whether code parses as module:action with both
// parts non-empty. Unknown vocabulary still counts as well formed; it
// is ignored rather than rejected.
func IsWellFormed(code string) bool {
	_, _, ok := ParseCode(code)
	return ok
}

// IsAdminClassRole reports whether a role name denotes an admin-class
// role for the purposes of the admin:manage preservation guard.
func IsAdminClassRole(roleName string) bool {
	name := strings.ToLower(strings.TrimSpace(roleName))
	if name == "" {
		return false
	}
	return strings.Contains(name, "admin") || name == "superuser" || name == "root"
}
