package employee

import (
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
	var dto CreateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	e, svcErr := h.Service.GetByID(r.Context(), id)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

// Me returns the profile of the signed-in user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	e, err := h.Service.GetOwnProfile(r.Context(), su.ID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var dto UpdateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, svcErr := h.Service.Update(r.Context(), id, dto)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	if svcErr := h.Service.Delete(r.Context(), id); svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	departmentID, _ := strconv.ParseInt(r.URL.Query().Get("department_id"), 10, 64)

	es, err := h.Service.List(r.Context(), departmentID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, es)
}
