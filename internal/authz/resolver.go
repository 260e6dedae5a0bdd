// Package authz implements admission checks for protected areas and
// the prioritized view classification of a principal. All operations
// are pure and reentrant over an already-loaded Principal.
package authz

import (
	"log/slog"
	"strings"

	"github.com/frahmantamala/business-management/internal/principal"
)

// Classification is the resolver's terminal outcome. Exactly one value
// is produced for any principal; Denied is an explicit result, not an
// error.
type Classification string

const (
	ClassAdmin    Classification = "admin"
	ClassHR       Classification = "hr"
	ClassVendor   Classification = "vendor"
	ClassEmployee Classification = "employee"
	ClassCustomer Classification = "customer"
	ClassDenied   Classification = "denied"
)

// businessDomains back the breadth heuristic: codes spanning three or
// more of these six domains suggest a super-user even without
// role-name evidence.
var businessDomains = map[string][]string{
	"hr":        {"hr", "payroll"},
	"employee":  {"employee", "staff"},
	"vendor":    {"vendor", "supplier"},
	"customer":  {"customer", "client"},
	"inventory": {"inventory", "stock"},
	"finance":   {"finance", "payment", "invoice"},
}

const adminDomainThreshold = 3

var (
	adminNamePredicate = AnyOf("admin-name",
		NameContainsWithout("admin", "hr"),
		NameContains("superuser"),
		NameContains("root"),
		NameEquals("administrator"),
	)

	hrNamePredicate = NameContainsAny(
		"hr", "human_resource", "human resource", "humanresources", "hrstaff",
	)

	vendorPredicate = AnyOf("vendor-signal",
		NameContains("vendor"),
		AttributeContains("vendor"),
	)

	employeeNamePredicate = NameContainsAny("employee", "staff", "worker")
	employeeCodePredicate = CodeContainsAny("task", "attendance", "leave")

	customerNamePredicate = NameContainsAny("customer", "client")
)

type Resolver struct {
	areas            map[string]Area
	bootstrapAdminID string
	logger           *slog.Logger
}

func NewResolver(areas []Area, bootstrapAdminID string, logger *slog.Logger) *Resolver {
	index := make(map[string]Area, len(areas))
	for _, area := range areas {
		index[area.Name] = area
	}
	return &Resolver{
		areas:            index,
		bootstrapAdminID: bootstrapAdminID,
		logger:           logger,
	}
}

// Area returns a registered protected-area declaration.
func (r *Resolver) Area(name string) (Area, bool) {
	area, ok := r.areas[name]
	return area, ok
}

// Admit checks whether the principal may enter the area: its
// permission set must intersect the area's required codes, or one of
// the area's fallback role predicates must match. The resolver
// executes whatever rule set the area supplies; it hard-codes no area
// semantics.
func (r *Resolver) Admit(area Area, p principal.Principal) bool {
	if p.HasAnyCode(area.RequiredCodes) {
		return true
	}
	for _, pred := range area.Fallbacks {
		if pred.Match(p) {
			r.logger.Debug("admission via fallback predicate",
				"area", area.Name, "predicate", pred.Tag)
			return true
		}
	}
	return false
}

// Classify runs the strictly ordered rule tiers. First match wins;
// later tiers are never re-examined. The ordering is load bearing:
// Admin > HR > Vendor > Employee > Customer > Denied, with the
// HR-over-Admin override for names carrying both substrings, and the
// domain-breadth heuristic as the weakest Admin clause.
func (r *Resolver) Classify(p principal.Principal) Classification {
	if r.isAdmin(p) {
		return ClassAdmin
	}
	if hrNamePredicate.Match(p) {
		return ClassHR
	}
	if vendorPredicate.Match(p) {
		return ClassVendor
	}
	if employeeNamePredicate.Match(p) || employeeCodePredicate.Match(p) {
		return ClassEmployee
	}
	if r.isCustomer(p) {
		return ClassCustomer
	}
	return ClassDenied
}

func (r *Resolver) isAdmin(p principal.Principal) bool {
	if adminNamePredicate.Match(p) {
		return true
	}
	if r.bootstrapAdminID != "" && p.ID == r.bootstrapAdminID {
		return true
	}

	// An HR-qualified name denotes an HR lead, not a system admin:
	// it overrides both the admin-permission clause and the breadth
	// heuristic. Only an unambiguous admin name (or the bootstrap id)
	// outranks it.
	if NameContains("hr").Match(p) {
		return false
	}

	if hasAdminCode(p) {
		return true
	}

	// breadth heuristic, the lowest-confidence admin clause
	if r.domainSpread(p) >= adminDomainThreshold {
		r.logger.Debug("admin classification via domain-breadth heuristic",
			"principal_id", p.ID, "domains", r.domainSpread(p))
		return true
	}
	return false
}

func hasAdminCode(p principal.Principal) bool {
	for code := range p.Permissions {
		if !strings.HasPrefix(code, "admin:") {
			continue
		}
		action := strings.TrimPrefix(code, "admin:")
		if action == "manage" || action == "access" {
			return true
		}
	}
	return false
}

func (r *Resolver) domainSpread(p principal.Principal) int {
	spread := 0
	for _, keywords := range businessDomains {
		for _, keyword := range keywords {
			if p.AnyCodeContains(keyword) {
				spread++
				break
			}
		}
	}
	return spread
}

// isCustomer is the catch-all tier: an explicit customer/client name,
// a purchase/orders code held without any staff-prefixed code, or —
// once tiers 1-4 have all failed — any remaining permission or
// role-name evidence at all. Only a principal with no evidence
// whatsoever falls through to Denied.
func (r *Resolver) isCustomer(p principal.Principal) bool {
	if customerNamePredicate.Match(p) {
		return true
	}
	if (p.AnyCodeContains("purchase") || p.AnyCodeContains("order")) && !hasStaffPrefixedCode(p) {
		return true
	}
	return p.HasPermissions() || p.HasRoleEvidence()
}

func hasStaffPrefixedCode(p principal.Principal) bool {
	for _, prefix := range []string{"admin:", "hr:", "employee:", "vendor:"} {
		if p.AnyCodeWithPrefix(prefix) {
			return true
		}
	}
	return false
}
