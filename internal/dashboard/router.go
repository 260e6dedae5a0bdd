// Package dashboard maps resolver classifications to the landing view
// a principal should see, per protected area.
package dashboard

import (
	"log/slog"

	"github.com/frahmantamala/business-management/internal/authz"
	"github.com/frahmantamala/business-management/internal/principal"
)

type ViewID string

const (
	ViewAdmin    ViewID = "ADMIN_VIEW"
	ViewHR       ViewID = "HR_VIEW"
	ViewVendor   ViewID = "VENDOR_VIEW"
	ViewEmployee ViewID = "EMPLOYEE_VIEW"
	ViewCustomer ViewID = "CUSTOMER_VIEW"
	ViewDenied   ViewID = "DENIED"
)

var generalViews = map[authz.Classification]ViewID{
	authz.ClassAdmin:    ViewAdmin,
	authz.ClassHR:       ViewHR,
	authz.ClassVendor:   ViewVendor,
	authz.ClassEmployee: ViewEmployee,
	authz.ClassCustomer: ViewCustomer,
	authz.ClassDenied:   ViewDenied,
}

type Router struct {
	resolver *authz.Resolver
	logger   *slog.Logger
}

func NewRouter(resolver *authz.Resolver, logger *slog.Logger) *Router {
	return &Router{
		resolver: resolver,
		logger:   logger,
	}
}

// ResolveView selects exactly one view for the principal in the named
// area. The general dashboard maps the full classification; scoped
// areas run a narrower pass over their own rules instead of reusing
// the general result. Unknown areas resolve to Denied.
func (r *Router) ResolveView(areaName string, p principal.Principal) ViewID {
	area, ok := r.resolver.Area(areaName)
	if !ok {
		r.logger.Warn("view requested for unknown area", "area", areaName)
		return ViewDenied
	}

	switch areaName {
	case authz.AreaPayroll:
		return r.resolvePayrollView(area, p)
	default:
		return r.resolveGeneralView(area, p)
	}
}

func (r *Router) resolveGeneralView(area authz.Area, p principal.Principal) ViewID {
	if !r.resolver.Admit(area, p) {
		return ViewDenied
	}

	class := r.resolver.Classify(p)
	view := generalViews[class]
	r.logger.Debug("resolved general view",
		"area", area.Name, "classification", string(class), "view", string(view))
	return view
}

// resolvePayrollView is payroll's own Admin/HR split, narrower than
// the general classification: HR evidence wins over admin evidence,
// and anyone else admitted by payroll codes lands on the employee
// payslip view.
func (r *Router) resolvePayrollView(area authz.Area, p principal.Principal) ViewID {
	if !r.resolver.Admit(area, p) {
		return ViewDenied
	}

	if authz.NameContains("hr").Match(p) || p.HasCode("hr:manage") {
		return ViewHR
	}
	if authz.NameContainsWithout("admin", "hr").Match(p) || p.HasCode("admin:manage") {
		return ViewAdmin
	}
	return ViewEmployee
}
