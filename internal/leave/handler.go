package leave

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	apperrors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var dto CreateLeaveDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	lr, err := h.Service.Create(r.Context(), su.ID, dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, lr)
}

func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	lrs, err := h.Service.ListOwn(r.Context(), su.ID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, lrs)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	lrs, err := h.Service.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, lrs)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Cancel)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Reject)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, su *apperrors.SessionUser, id int64) (*LeaveRequest, error)) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave request id")
		return
	}

	lr, svcErr := fn(r.Context(), su, id)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, lr)
}
