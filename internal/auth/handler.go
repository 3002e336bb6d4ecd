package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/transport"
	"github.com/frahmantamala/employee-directory/pkg/logger"
)

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

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	payload, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, payload.ToV1())
}

// AuthMiddleware resolves the caller from the bearer header when one is
// present. Requests without a valid token continue anonymously; the gate
// functions decide per operation.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := ExtractBearer(r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		caller := h.Service.ResolveCaller(r.Context(), token)
		if caller == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := ContextWithCaller(r.Context(), caller)
		ctx = internal.ContextWithCallerInfo(ctx, internal.CallerInfo{UserID: caller.ID, Role: string(caller.Role)})
		ctx = logger.WithCaller(ctx, caller.ID, string(caller.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
