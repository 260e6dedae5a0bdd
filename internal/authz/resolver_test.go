package authz_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/business-management/internal/authz"
	"github.com/frahmantamala/business-management/internal/principal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuthz(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Authz Suite")
}

const bootstrapAdminID = "00000000-0000-0000-0000-000000000001"

func newResolver() *authz.Resolver {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return authz.NewResolver(authz.DefaultAreas(), bootstrapAdminID, logger)
}

func principalWith(names []string, codes []string) principal.Principal {
	return principal.New("user-1", "", codes, names, principal.Attributes{})
}

var _ = Describe("Resolver", func() {
	var resolver *authz.Resolver

	BeforeEach(func() {
		resolver = newResolver()
	})

	Describe("Classify", func() {
		It("should classify an unambiguous admin name as admin", func() {
			p := principalWith([]string{"system-admin"}, nil)
			Expect(resolver.Classify(p)).To(Equal(authz.ClassAdmin))
		})

		It("should classify superuser and root names as admin", func() {
			Expect(resolver.Classify(principalWith([]string{"superuser"}, nil))).To(Equal(authz.ClassAdmin))
			Expect(resolver.Classify(principalWith([]string{"root"}, nil))).To(Equal(authz.ClassAdmin))
		})

		It("should classify hr-admin as HR even with admin permission codes", func() {
			p := principalWith([]string{"hr-admin"}, []string{"admin:manage", "admin:access"})
			Expect(resolver.Classify(p)).To(Equal(authz.ClassHR))
		})

		It("should let a separate plain admin name win over an hr name", func() {
			p := principalWith([]string{"hr-staff", "admin"}, nil)
			Expect(resolver.Classify(p)).To(Equal(authz.ClassAdmin))
		})

		It("should classify admin permission codes as admin without name evidence", func() {
			p := principalWith(nil, []string{"admin:manage"})
			Expect(resolver.Classify(p)).To(Equal(authz.ClassAdmin))
		})

		It("should classify the bootstrap account as admin regardless of evidence", func() {
			p := principal.New(bootstrapAdminID, "", nil, nil, principal.Attributes{})
			Expect(resolver.Classify(p)).To(Equal(authz.ClassAdmin))
		})

		It("should apply the breadth heuristic at three business domains", func() {
			p := principalWith(nil, []string{"payroll:read", "vendor:read", "inventory:read"})
			Expect(resolver.Classify(p)).To(Equal(authz.ClassAdmin))
		})

		It("should not apply the breadth heuristic below three domains", func() {
			p := principalWith(nil, []string{"payroll:read", "vendor:read"})
			Expect(resolver.Classify(p)).NotTo(Equal(authz.ClassAdmin))
		})

		It("should suppress the breadth heuristic for hr-qualified names", func() {
			p := principalWith([]string{"hr-lead"}, []string{"payroll:read", "vendor:read", "inventory:read"})
			Expect(resolver.Classify(p)).To(Equal(authz.ClassHR))
		})

		It("should classify hr names as HR", func() {
			Expect(resolver.Classify(principalWith([]string{"human_resources"}, nil))).To(Equal(authz.ClassHR))
		})

		It("should classify vendor evidence as vendor", func() {
			Expect(resolver.Classify(principalWith([]string{"vendor-portal"}, nil))).To(Equal(authz.ClassVendor))

			withAttr := principal.New("u", "", nil, nil, principal.Attributes{UserType: "Vendor"})
			Expect(resolver.Classify(withAttr)).To(Equal(authz.ClassVendor))
		})

		It("should classify employee names and codes as employee", func() {
			Expect(resolver.Classify(principalWith([]string{"staff"}, nil))).To(Equal(authz.ClassEmployee))
			Expect(resolver.Classify(principalWith(nil, []string{"attendance:read"}))).To(Equal(authz.ClassEmployee))
		})

		It("should classify purchase codes without staff codes as customer", func() {
			Expect(resolver.Classify(principalWith(nil, []string{"purchase:create"}))).To(Equal(authz.ClassCustomer))
		})

		It("should fall back to customer for any unmatched evidence", func() {
			Expect(resolver.Classify(principalWith([]string{"mystery-role"}, nil))).To(Equal(authz.ClassCustomer))
			Expect(resolver.Classify(principalWith(nil, []string{"sites:read"}))).To(Equal(authz.ClassCustomer))
		})

		It("should deny only principals with no evidence at all", func() {
			Expect(resolver.Classify(principalWith(nil, nil))).To(Equal(authz.ClassDenied))
		})
	})

	Describe("Admit", func() {
		It("should admit on a required code intersection", func() {
			area, ok := resolver.Area(authz.AreaDashboard)
			Expect(ok).To(BeTrue())

			p := principalWith(nil, []string{"dashboard:read"})
			Expect(resolver.Admit(area, p)).To(BeTrue())
		})

		It("should admit via a fallback predicate when codes are absent", func() {
			area, _ := resolver.Area(authz.AreaPayroll)

			p := principalWith([]string{"hr-manager"}, nil)
			Expect(resolver.Admit(area, p)).To(BeTrue())
		})

		It("should refuse principals matching neither codes nor fallbacks", func() {
			area, _ := resolver.Area(authz.AreaRoles)

			p := principalWith([]string{"employee"}, []string{"tasks:read"})
			Expect(resolver.Admit(area, p)).To(BeFalse())
		})

		It("should keep hr-qualified names out of the roles area fallbacks", func() {
			area, _ := resolver.Area(authz.AreaRoles)

			p := principalWith([]string{"hr-admin"}, nil)
			Expect(resolver.Admit(area, p)).To(BeFalse())
		})
	})
})
