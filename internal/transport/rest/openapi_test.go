package rest_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Transport Suite")
}

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should be a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("should describe every registered route", func() {
		for _, path := range []string{
			"/health",
			"/ping",
			"/auth/login",
			"/auth/refresh",
			"/auth/logout",
			"/users/me",
			"/dashboard/view",
			"/roles",
			"/roles/tree",
			"/roles/{id}/permissions",
			"/roles/{id}/parent",
			"/roles/{id}",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("should enumerate the dashboard view identifiers", func() {
		schema := doc.Components.Schemas["ViewResolution"]
		Expect(schema).NotTo(BeNil())

		viewProp := schema.Value.Properties["view"]
		Expect(viewProp).NotTo(BeNil())
		Expect(viewProp.Value.Enum).To(ContainElements("ADMIN_VIEW", "HR_VIEW", "VENDOR_VIEW", "EMPLOYEE_VIEW", "CUSTOMER_VIEW", "DENIED"))
	})
})
