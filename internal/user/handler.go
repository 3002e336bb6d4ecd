package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/transport"
	"github.com/frahmantamala/employee-directory/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /api/v1/users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller := internal.CallerInfoFromContext(r.Context())
	if caller.Anonymous() {
		h.WriteAppError(w, internal.ErrUnauthenticated)
		return
	}

	u, err := h.Service.GetByID(r.Context(), caller.UserID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service GetByID failed", "user_id", caller.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	if u == nil {
		h.WriteAppError(w, internal.ErrUnauthenticated)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToProfile(u))
}
