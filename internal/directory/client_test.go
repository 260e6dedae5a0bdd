package directory_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/directory"
	"github.com/frahmantamala/business-management/internal/role"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newRole(name string) *role.Role {
	return role.NewRole(name, nil)
}

func TestDirectory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Directory Suite")
}

func newClient(server *httptest.Server) *directory.Client {
	return directory.NewClient(directory.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var _ = Describe("Directory Client", func() {
	var (
		server *httptest.Server
		ctx    context.Context
	)

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("GetAll", func() {
		It("should decode the role list and send the bearer key", func() {
			var gotAuth string
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"roles":[{"id":"r1","name":"ops","permissions":["tasks:read"]},{"id":"r2","name":"ops-junior","parent_id":"r1","permissions":[]}]}`))
			}))

			roles, err := newClient(server).GetAll(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(gotAuth).To(Equal("Bearer test-key"))
			Expect(roles).To(HaveLen(2))
			Expect(roles[0].Permissions).To(ConsistOf("tasks:read"))
			Expect(*roles[1].ParentID).To(Equal("r1"))
		})
	})

	Describe("error mapping", func() {
		respond := func(status int, body string) *httptest.Server {
			return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(body))
			}))
		}

		It("should map 401 to session invalidation", func() {
			server = respond(http.StatusUnauthorized, `{}`)

			_, err := newClient(server).FetchPermissions(ctx, "u1")

			Expect(err).To(MatchError(internal.ErrSessionInvalid))
		})

		It("should map 404 to role not found on deletes", func() {
			server = respond(http.StatusNotFound, `{}`)

			err := newClient(server).Delete(ctx, "missing")

			Expect(err).To(MatchError(internal.ErrRoleNotFound))
		})

		It("should map 403 to the protected-role guard", func() {
			server = respond(http.StatusForbidden, `{}`)

			err := newClient(server).Delete(ctx, "r1")

			Expect(err).To(MatchError(internal.ErrProtectedRole))
		})

		It("should map structured conflict codes", func() {
			server = respond(http.StatusConflict, `{"error":{"code":"HAS_DEPENDENTS"}}`)

			err := newClient(server).Delete(ctx, "r1")

			Expect(err).To(MatchError(internal.ErrHasDependents))
		})

		It("should fall back to message phrases on unstructured conflicts", func() {
			server = respond(http.StatusConflict, `{"message":"a role with this name already exists"}`)

			err := newClient(server).Create(ctx, newRole("ops"))

			Expect(err).To(MatchError(internal.ErrDuplicateName))
		})

		It("should recognize dependent-role phrases", func() {
			server = respond(http.StatusConflict, `{"message":"role still has child roles"}`)

			err := newClient(server).Delete(ctx, "r1")

			Expect(err).To(MatchError(internal.ErrHasDependents))
		})

		It("should wrap other failures as external errors", func() {
			server = respond(http.StatusInternalServerError, `{}`)

			_, err := newClient(server).GetAll(ctx)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeExternal))
		})
	})

	Describe("GetByID", func() {
		It("should return nil for a missing role", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))

			fetched, err := newClient(server).GetByID(ctx, "missing")

			Expect(err).NotTo(HaveOccurred())
			Expect(fetched).To(BeNil())
		})
	})

	Describe("FetchPermissions", func() {
		It("should deduplicate returned codes", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"permissions":[{"code":"hr:manage"},{"code":"hr:manage"},{"code":""},{"code":"payroll:read"}]}`))
			}))

			codes, err := newClient(server).FetchPermissions(ctx, "u1")

			Expect(err).NotTo(HaveOccurred())
			Expect(codes).To(ConsistOf("hr:manage", "payroll:read"))
		})
	})
})
