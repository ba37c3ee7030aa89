package attendance

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

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

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var dto CheckDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	a, err := h.Service.CheckIn(r.Context(), su.ID, dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var dto CheckDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	a, err := h.Service.CheckOut(r.Context(), su.ID, dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// History lists the signed-in user's own attendance records.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	from := parseDate(r.URL.Query().Get("from"))
	to := parseDate(r.URL.Query().Get("to"))

	as, err := h.Service.History(r.Context(), su.ID, from, to)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, as)
}

// DailyOverview lists every record for one day, for HR staff.
func (h *Handler) DailyOverview(w http.ResponseWriter, r *http.Request) {
	day := parseDate(r.URL.Query().Get("date"))

	as, err := h.Service.DailyOverview(r.Context(), day)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, as)
}

func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid month")
		return
	}

	rows, svcErr := h.Service.MonthlyReport(r.Context(), year, time.Month(month))
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}

func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}
	}
	return t
}
