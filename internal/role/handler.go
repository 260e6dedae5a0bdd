package role

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/business-management/internal/transport"
	"github.com/frahmantamala/business-management/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListRoles returns the flat role list. Fetch failures degrade to an
// empty list with an error payload so the admin UI never renders a
// partially applied tree.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.GetAllRoles(r.Context())
	if err != nil {
		h.Logger.Error("ListRoles: fetch failed", "error", err)
		h.WriteJSON(w, http.StatusBadGateway, map[string]interface{}{
			"roles": []RoleResponse{},
			"error": "failed to fetch roles",
		})
		return
	}

	responses := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, role.ToResponse())
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"roles": responses})
}

func (h *Handler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.Service.GetTree(r.Context())
	if err != nil {
		h.Logger.Error("GetTree: fetch failed", "error", err)
		h.WriteJSON(w, http.StatusBadGateway, map[string]interface{}{
			"tree":  []*RoleNode{},
			"error": "failed to fetch roles",
		})
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"tree": tree})
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateRole(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateRole: role created", "role_id", created.ID, "name", created.Name)
	h.WriteJSON(w, http.StatusCreated, created.ToResponse())
}

func (h *Handler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	roleID := chi.URLParam(r, "id")
	if roleID == "" {
		h.WriteError(w, http.StatusBadRequest, "role id is required")
		return
	}

	var dto UpdatePermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateRolePermissions(r.Context(), roleID, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated.ToResponse())
}

func (h *Handler) ReassignParent(w http.ResponseWriter, r *http.Request) {
	roleID := chi.URLParam(r, "id")
	if roleID == "" {
		h.WriteError(w, http.StatusBadRequest, "role id is required")
		return
	}

	var dto struct {
		ParentID *string `json:"parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.ReassignParent(r.Context(), roleID, dto.ParentID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated.ToResponse())
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	roleID := chi.URLParam(r, "id")
	if roleID == "" {
		h.WriteError(w, http.StatusBadRequest, "role id is required")
		return
	}

	if err := h.Service.DeleteRole(r.Context(), roleID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteRole: role deleted", "role_id", roleID)
	w.WriteHeader(http.StatusNoContent)
}
