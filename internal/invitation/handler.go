package invitation

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	apperrors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service  *Service
	Sessions *auth.Handler
}

func NewHandler(svc *Service, sessions *auth.Handler) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Sessions:    sessions,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteServiceError(w, apperrors.ErrUnauthorized)
		return
	}

	var dto CreateInvitationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	inv, err := h.Service.Create(r.Context(), sessionUser, dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, inv)
}

// Lookup lets the invited person preview the offer before accepting. Token
// failures are reported specifically (expired vs. used vs. invalid); the
// holder of the token loses nothing by knowing.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	inv, err := h.Service.Lookup(r.Context(), token)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"email":      inv.Email,
		"role":       inv.Role,
		"expires_at": inv.ExpiresAt,
	})
}

// Accept consumes the invitation and signs the new user in.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	var dto AcceptInvitationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if dto.Token == "" {
		dto.Token = r.URL.Query().Get("token")
	}

	u, err := h.Service.Accept(r.Context(), dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if err := h.Sessions.IssueSession(w, u.ID, u.RoleValue(), true); err != nil {
		h.Logger.Error("accept-invitation: session issuance failed", "error", err, "user_id", u.ID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user":        u,
		"redirect_to": u.RoleValue().Home(),
	})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteServiceError(w, apperrors.ErrUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid invitation id")
		return
	}

	inv, svcErr := h.Service.Cancel(r.Context(), sessionUser, id)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteServiceError(w, apperrors.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	invs, err := h.Service.List(r.Context(), sessionUser, limit, offset)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, invs)
}
