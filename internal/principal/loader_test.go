package principal_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/principal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPrincipal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Principal Suite")
}

type fakeSource struct {
	codes []string
	err   error
}

func (f *fakeSource) FetchPermissions(ctx context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.codes, nil
}

func newLoader(source principal.PermissionSource) *principal.Loader {
	return principal.NewLoader(source, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var _ = Describe("Principal Loader", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("role name extraction", func() {
		It("should read names from the roles key first", func() {
			loader := newLoader(nil)

			p, err := loader.Load(ctx, map[string]interface{}{
				"user_id":    "u1",
				"roles":      []string{"Admin"},
				"role_names": []string{"shadow"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.RoleNames).To(ConsistOf("admin"))
		})

		It("should fall through empty keys in priority order", func() {
			loader := newLoader(nil)

			p, err := loader.Load(ctx, map[string]interface{}{
				"user_id":     "u1",
				"roles":       []string{},
				"authorities": []interface{}{"hr-manager"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.RoleNames).To(ConsistOf("hr-manager"))
		})

		It("should accept comma-joined name strings", func() {
			loader := newLoader(nil)

			p, err := loader.Load(ctx, map[string]interface{}{
				"user_id": "u1",
				"groups":  "employee, Vendor-Portal",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.RoleNames).To(ConsistOf("employee", "vendor-portal"))
		})

		It("should normalize and deduplicate names", func() {
			loader := newLoader(nil)

			p, err := loader.Load(ctx, map[string]interface{}{
				"user_id": "u1",
				"roles":   []string{" Admin ", "admin", ""},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.RoleNames).To(ConsistOf("admin"))
		})
	})

	Describe("identity extraction", func() {
		It("should prefer user_id over sub", func() {
			loader := newLoader(nil)

			p, err := loader.Load(ctx, map[string]interface{}{
				"user_id": "u1",
				"sub":     "other",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal("u1"))
		})

		It("should fall back to sub when user_id is absent", func() {
			loader := newLoader(nil)

			p, err := loader.Load(ctx, map[string]interface{}{"sub": "u2"})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal("u2"))
		})
	})

	Describe("permission fetch", func() {
		It("should merge fetched codes into the principal", func() {
			loader := newLoader(&fakeSource{codes: []string{"hr:manage"}})

			p, err := loader.Load(ctx, map[string]interface{}{"user_id": "u1"})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.HasCode("hr:manage")).To(BeTrue())
		})

		It("should propagate session invalidation, never an empty set", func() {
			loader := newLoader(&fakeSource{err: internal.ErrSessionInvalid})

			_, err := loader.Load(ctx, map[string]interface{}{"user_id": "u1"})

			Expect(err).To(MatchError(internal.ErrSessionInvalid))
		})

		It("should propagate other fetch failures", func() {
			loader := newLoader(&fakeSource{err: errors.New("timeout")})

			_, err := loader.Load(ctx, map[string]interface{}{"user_id": "u1"})

			Expect(err).To(HaveOccurred())
		})

		It("should keep inline claim codes alongside fetched ones", func() {
			loader := newLoader(&fakeSource{codes: []string{"hr:manage"}})

			p, err := loader.Load(ctx, map[string]interface{}{
				"user_id":     "u1",
				"permissions": []interface{}{"dashboard:read"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.HasCode("hr:manage")).To(BeTrue())
			Expect(p.HasCode("dashboard:read")).To(BeTrue())
		})

		It("should distinguish an empty permission set from an invalid session", func() {
			loader := newLoader(&fakeSource{codes: []string{}})

			p, err := loader.Load(ctx, map[string]interface{}{"user_id": "u1"})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.HasPermissions()).To(BeFalse())
		})
	})
})
