package authz

// Area declares a protected area's admission rules: the permission
// codes that grant entry plus fallback role predicates for sessions
// whose role evidence predates code-based grants. This is static
// configuration consumed by the resolver, not a network contract.
type Area struct {
	Name          string
	RequiredCodes []string
	Fallbacks     []RolePredicate
}

const (
	AreaDashboard = "dashboard"
	AreaPayroll   = "payroll"
	AreaRoles     = "roles"
)

// DefaultAreas are the protected areas this client ships with. Each
// feature area owns its declaration; the resolver executes whatever it
// is given.
func DefaultAreas() []Area {
	return []Area{
		{
			Name: AreaDashboard,
			RequiredCodes: []string{
				"dashboard:read",
				"admin:manage",
			},
			Fallbacks: []RolePredicate{
				NameContains("admin"),
				hrNamePredicate,
				employeeNamePredicate,
			},
		},
		{
			Name: AreaPayroll,
			RequiredCodes: []string{
				"payroll:read",
				"payroll:manage",
				"hr:manage",
				"admin:manage",
			},
			// HR-qualified admin names resolve toward HR, so the plain
			// hr predicate comes first and the admin fallback excludes
			// hr-carrying names.
			Fallbacks: []RolePredicate{
				NameContains("hr"),
				NameContainsWithout("admin", "hr"),
			},
		},
		{
			Name: AreaRoles,
			RequiredCodes: []string{
				"roles:manage",
				"admin:manage",
			},
			Fallbacks: []RolePredicate{
				NameContainsWithout("admin", "hr"),
				NameContains("superuser"),
			},
		},
	}
}
