package dashboard_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/business-management/internal/authz"
	"github.com/frahmantamala/business-management/internal/dashboard"
	"github.com/frahmantamala/business-management/internal/principal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDashboard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Suite")
}

func newTestRouter() *dashboard.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := authz.NewResolver(authz.DefaultAreas(), "", logger)
	return dashboard.NewRouter(resolver, logger)
}

func principalWith(names []string, codes []string) principal.Principal {
	return principal.New("user-1", "", codes, names, principal.Attributes{})
}

var _ = Describe("Dashboard Router", func() {
	var router *dashboard.Router

	BeforeEach(func() {
		router = newTestRouter()
	})

	Describe("general dashboard", func() {
		It("should map each classification to its view", func() {
			Expect(router.ResolveView(authz.AreaDashboard, principalWith([]string{"system-admin"}, nil))).
				To(Equal(dashboard.ViewAdmin))
			Expect(router.ResolveView(authz.AreaDashboard, principalWith([]string{"hr-manager"}, nil))).
				To(Equal(dashboard.ViewHR))
			Expect(router.ResolveView(authz.AreaDashboard, principalWith([]string{"employee"}, nil))).
				To(Equal(dashboard.ViewEmployee))
		})

		It("should deny principals without dashboard admission", func() {
			p := principalWith([]string{"vendor-portal"}, nil)
			Expect(router.ResolveView(authz.AreaDashboard, p)).To(Equal(dashboard.ViewDenied))
		})

		It("should deny principals with no evidence", func() {
			Expect(router.ResolveView(authz.AreaDashboard, principalWith(nil, nil))).
				To(Equal(dashboard.ViewDenied))
		})
	})

	Describe("payroll area", func() {
		It("should route hr evidence to the HR view", func() {
			p := principalWith([]string{"hr-manager"}, []string{"payroll:read"})
			Expect(router.ResolveView(authz.AreaPayroll, p)).To(Equal(dashboard.ViewHR))
		})

		It("should prefer HR over admin for hr-qualified admin names", func() {
			p := principalWith([]string{"hr-admin"}, []string{"payroll:read"})
			Expect(router.ResolveView(authz.AreaPayroll, p)).To(Equal(dashboard.ViewHR))
		})

		It("should route plain admin evidence to the admin view", func() {
			p := principalWith([]string{"admin"}, nil)
			Expect(router.ResolveView(authz.AreaPayroll, p)).To(Equal(dashboard.ViewAdmin))
		})

		It("should land other admitted principals on the employee payslip view", func() {
			p := principalWith(nil, []string{"payroll:read"})
			Expect(router.ResolveView(authz.AreaPayroll, p)).To(Equal(dashboard.ViewEmployee))
		})

		It("should deny principals without payroll admission", func() {
			p := principalWith([]string{"employee"}, []string{"tasks:read"})
			Expect(router.ResolveView(authz.AreaPayroll, p)).To(Equal(dashboard.ViewDenied))
		})
	})

	Describe("unknown areas", func() {
		It("should resolve to Denied", func() {
			p := principalWith([]string{"admin"}, nil)
			Expect(router.ResolveView("warehouse", p)).To(Equal(dashboard.ViewDenied))
		})
	})
})
