package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/business-management/internal/authz"
	"github.com/frahmantamala/business-management/internal/principal"
	"github.com/frahmantamala/business-management/internal/transport"
	"github.com/frahmantamala/business-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Router *Router
}

func NewHandler(router *Router) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Router:      router,
	}
}

// ResolveView answers which landing view the session should render for
// an area. Denied is a normal response body with 403, not an error
// payload; the client renders its no-access state from it.
func (h *Handler) ResolveView(w http.ResponseWriter, r *http.Request) {
	p, ok := principal.FromContext(r.Context())
	if !ok {
		h.Logger.Error("ResolveView: principal not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	areaName := r.URL.Query().Get("area")
	if areaName == "" {
		areaName = authz.AreaDashboard
	}

	view := h.Router.ResolveView(areaName, p)

	status := http.StatusOK
	if view == ViewDenied {
		status = http.StatusForbidden
	}

	h.WriteJSON(w, status, map[string]interface{}{
		"area": areaName,
		"view": string(view),
	})
}
