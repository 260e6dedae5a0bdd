package role_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/role"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockRepo struct {
	roles      []*role.Role
	getAllErr  error
	createErr  error
	deleteErr  error
	deletedIDs []string
	created    []*role.Role
	updated    []*role.Role
}

func (m *mockRepo) GetAll(ctx context.Context) ([]*role.Role, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.roles, nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*role.Role, error) {
	for _, r := range m.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, internal.ErrRoleNotFound
}

func (m *mockRepo) Create(ctx context.Context, r *role.Role) error {
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = "generated-id"
	m.created = append(m.created, r)
	m.roles = append(m.roles, r)
	return nil
}

func (m *mockRepo) Update(ctx context.Context, r *role.Role) error {
	m.updated = append(m.updated, r)
	return nil
}

func (m *mockRepo) UpdatePermissions(ctx context.Context, id string, permissions []string) (*role.Role, error) {
	for _, r := range m.roles {
		if r.ID == id {
			r.Permissions = permissions
			return r, nil
		}
	}
	return nil, internal.ErrRoleNotFound
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

var _ = Describe("Role Service", func() {
	var (
		repo    *mockRepo
		service *role.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = &mockRepo{}
		service = role.NewService(repo, nil, testLogger())
		ctx = context.Background()
	})

	Describe("GetAllRoles", func() {
		It("should wrap fetch failures as external errors", func() {
			repo.getAllErr = errors.New("connection refused")

			_, err := service.GetAllRoles(ctx)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeExternal))
		})
	})

	Describe("CreateRole", func() {
		It("should create a role with a trimmed name", func() {
			created, err := service.CreateRole(ctx, &role.CreateRoleDTO{Name: "  ops  "})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Name).To(Equal("ops"))
			Expect(repo.created).To(HaveLen(1))
		})

		It("should reject duplicate names case-insensitively", func() {
			repo.roles = []*role.Role{{ID: "r1", Name: "Ops"}}

			_, err := service.CreateRole(ctx, &role.CreateRoleDTO{Name: "ops"})

			Expect(err).To(MatchError(internal.ErrDuplicateName))
		})

		It("should reject an empty name", func() {
			_, err := service.CreateRole(ctx, &role.CreateRoleDTO{Name: "   "})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject a missing parent", func() {
			parentID := "missing"

			_, err := service.CreateRole(ctx, &role.CreateRoleDTO{Name: "ops", ParentID: &parentID})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidParent))
		})
	})

	Describe("UpdateRolePermissions", func() {
		It("should drop malformed codes during normalization", func() {
			repo.roles = []*role.Role{{ID: "r1", Name: "ops"}}

			updated, err := service.UpdateRolePermissions(ctx, "r1", &role.UpdatePermissionsDTO{
				Permissions: []string{"hr:manage", "garbage", "unknown:manage"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Permissions).To(ConsistOf("hr:manage"))
		})

		It("should keep admin:manage on admin-class roles regardless of input", func() {
			repo.roles = []*role.Role{{ID: "r1", Name: "admin"}}

			updated, err := service.UpdateRolePermissions(ctx, "r1", &role.UpdatePermissionsDTO{
				Permissions: []string{},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Permissions).To(ContainElement("admin:manage"))
		})
	})

	Describe("ReassignParent", func() {
		BeforeEach(func() {
			parentA := "a"
			parentB := "b"
			repo.roles = []*role.Role{
				{ID: "a", Name: "a"},
				{ID: "b", Name: "b", ParentID: &parentA},
				{ID: "c", Name: "c", ParentID: &parentB},
			}
		})

		It("should reject assignments that would create a cycle", func() {
			newParent := "c"

			_, err := service.ReassignParent(ctx, "a", &newParent)

			Expect(err).To(MatchError(internal.ErrCyclicHierarchy))
			Expect(repo.updated).To(BeEmpty())
		})

		It("should persist a valid reassignment", func() {
			newParent := "a"

			moved, err := service.ReassignParent(ctx, "c", &newParent)

			Expect(err).NotTo(HaveOccurred())
			Expect(*moved.ParentID).To(Equal("a"))
			Expect(repo.updated).To(HaveLen(1))
		})

		It("should allow detaching a role to the root", func() {
			moved, err := service.ReassignParent(ctx, "c", nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(moved.ParentID).To(BeNil())
		})
	})

	Describe("DeleteRole", func() {
		It("should refuse protected roles", func() {
			repo.roles = []*role.Role{{ID: "r1", Name: "super-admin"}}

			err := service.DeleteRole(ctx, "r1")

			Expect(err).To(MatchError(internal.ErrProtectedRole))
			Expect(repo.deletedIDs).To(BeEmpty())
		})

		It("should refuse roles with dependents", func() {
			parentID := "r1"
			repo.roles = []*role.Role{
				{ID: "r1", Name: "ops"},
				{ID: "r2", Name: "ops-junior", ParentID: &parentID},
			}

			err := service.DeleteRole(ctx, "r1")

			Expect(err).To(MatchError(internal.ErrHasDependents))
		})

		It("should delete a leaf role", func() {
			repo.roles = []*role.Role{{ID: "r1", Name: "ops"}}

			err := service.DeleteRole(ctx, "r1")

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.deletedIDs).To(ConsistOf("r1"))
		})

		It("should surface the store's own rejection", func() {
			repo.roles = []*role.Role{{ID: "r1", Name: "ops"}}
			repo.deleteErr = internal.ErrHasDependents

			err := service.DeleteRole(ctx, "r1")

			Expect(err).To(MatchError(internal.ErrHasDependents))
		})
	})
})
