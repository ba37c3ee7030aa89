package department

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

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
	var dto CreateDepartmentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	d, err := h.Service.CreateDepartment(r.Context(), dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	d, svcErr := h.Service.GetDepartment(r.Context(), id)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ds)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	var dto CreateDepartmentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	d, svcErr := h.Service.UpdateDepartment(r.Context(), id, dto)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	if svcErr := h.Service.DeleteDepartment(r.Context(), id); svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var dto CreateTeamDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	t, err := h.Service.CreateTeam(r.Context(), dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	departmentID, _ := strconv.ParseInt(r.URL.Query().Get("department_id"), 10, 64)

	ts, err := h.Service.ListTeams(r.Context(), departmentID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ts)
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	if svcErr := h.Service.DeleteTeam(r.Context(), id); svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
