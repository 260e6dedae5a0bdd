package permission_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/business-management/internal/permission"
)

func TestPermission(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Permission Codec Suite")
}

func asSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

var _ = Describe("Permission Codec", func() {
	Describe("Decode", func() {
		It("sets module access from the dedicated single code", func() {
			matrix := permission.Decode([]string{"dashboard:read", "alerts:read", "global_reports:view"})

			Expect(matrix[permission.ModuleDashboard].Access).To(BeTrue())
			Expect(matrix[permission.ModuleAlerts].Access).To(BeTrue())
			Expect(matrix[permission.ModuleReports].Access).To(BeTrue())
		})

		It("sets module access from the manage code for matrix modules", func() {
			matrix := permission.Decode([]string{"hr:manage", "inventory:manage"})

			Expect(matrix[permission.ModuleHR].Access).To(BeTrue())
			Expect(matrix[permission.ModuleInventory].Access).To(BeTrue())
			Expect(matrix[permission.ModuleUsers].Access).To(BeFalse())
		})

		It("sets CRUD flags independently", func() {
			matrix := permission.Decode([]string{"users:create", "users:delete", "tasks:update"})

			Expect(matrix[permission.ModuleUsers].Create).To(BeTrue())
			Expect(matrix[permission.ModuleUsers].Delete).To(BeTrue())
			Expect(matrix[permission.ModuleUsers].Read).To(BeFalse())
			Expect(matrix[permission.ModuleTasks].Update).To(BeTrue())
		})

		It("silently drops malformed codes", func() {
			matrix := permission.Decode([]string{"", ":", "users:", ":read", "users:create"})

			Expect(matrix[permission.ModuleUsers].Create).To(BeTrue())
			for _, mod := range permission.Modules {
				if mod == permission.ModuleUsers {
					continue
				}
				Expect(matrix[mod]).To(Equal(permission.MatrixEntry{}))
			}
		})

		It("ignores unknown module and action tokens", func() {
			matrix := permission.Decode([]string{"payroll:launch", "users:teleport", "hr:read"})

			Expect(matrix[permission.ModuleHR].Read).To(BeTrue())
			Expect(matrix[permission.ModuleUsers]).To(Equal(permission.MatrixEntry{}))
		})
	})

	Describe("Encode", func() {
		It("emits the dedicated code for single-code modules", func() {
			codes := permission.Encode(permission.AccessMatrix{
				permission.ModuleDashboard: {Access: true, Read: true},
				permission.ModuleReports:   {Access: true},
			})

			Expect(codes).To(ConsistOf("dashboard:read", "global_reports:view"))
		})

		It("emits manage for matrix modules and deduplicates", func() {
			codes := permission.Encode(permission.AccessMatrix{
				permission.ModuleHR: {Access: true, Create: true, Read: true},
			})

			Expect(codes).To(Equal([]string{"hr:manage", "hr:create", "hr:read"}))
		})

		It("produces stable ordering across modules", func() {
			matrix := permission.AccessMatrix{
				permission.ModuleAdmin: {Access: true},
				permission.ModuleUsers: {Read: true},
				permission.ModuleHR:    {Update: true},
			}

			Expect(permission.Encode(matrix)).To(Equal([]string{"users:read", "hr:update", "admin:manage"}))
			Expect(permission.Encode(matrix)).To(Equal(permission.Encode(matrix)))
		})
	})

	Describe("round-trip law", func() {
		It("Decode(Encode(m)) reproduces m", func() {
			m := permission.AccessMatrix{
				permission.ModuleDashboard:  {Access: true, Read: true},
				permission.ModuleUsers:      {Create: true, Read: true, Update: true},
				permission.ModuleHR:         {Access: true, Read: true},
				permission.ModuleInventory:  {Delete: true},
				permission.ModuleAlerts:     {Access: true, Read: true},
				permission.ModuleGenerators: {Access: true},
			}

			decoded := permission.Decode(permission.Encode(m))

			for _, mod := range permission.Modules {
				Expect(decoded[mod]).To(Equal(m[mod]), "module %s", mod)
			}
		})

		It("Encode(Decode(Encode(m))) equals Encode(m) as a set", func() {
			m := permission.AccessMatrix{
				permission.ModuleDashboard: {Access: true, Read: true},
				permission.ModuleRoles:     {Access: true, Create: true, Delete: true},
				permission.ModuleCustomers: {Read: true},
				permission.ModuleReports:   {Access: true},
			}

			once := permission.Encode(m)
			twice := permission.Encode(permission.Decode(once))

			Expect(asSet(twice)).To(Equal(asSet(once)))
		})
	})

	Describe("admin preservation guard", func() {
		It("keeps admin:manage through an encode that dropped it", func() {
			codes := permission.EncodeForRole("Admin", permission.AccessMatrix{
				permission.ModuleUsers: {Read: true},
			})

			Expect(codes).To(ContainElement("admin:manage"))
		})

		It("forces the admin access flag when decoding an admin-class role", func() {
			matrix := permission.DecodeForRole("super-admin", []string{"users:read"})

			Expect(matrix[permission.ModuleAdmin].Access).To(BeTrue())
		})

		It("does not add admin:manage for ordinary roles", func() {
			codes := permission.EncodeForRole("Clerk", permission.AccessMatrix{
				permission.ModuleUsers: {Read: true},
			})

			Expect(codes).NotTo(ContainElement("admin:manage"))
		})

		It("does not emit admin:manage twice", func() {
			codes := permission.EncodeForRole("Administrator", permission.AccessMatrix{
				permission.ModuleAdmin: {Access: true},
			})

			count := 0
			for _, c := range codes {
				if c == "admin:manage" {
					count++
				}
			}
			Expect(count).To(Equal(1))
		})
	})
})
