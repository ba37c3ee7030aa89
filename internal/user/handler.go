package user

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

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var dto SignUpDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.SignUp(r.Context(), dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    u,
		"message": "Account created. Check your inbox for the verification link.",
	})
}

// VerifyEmail consumes the emailed link and issues a session for the now
// verified account.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	u, err := h.Service.VerifyEmail(r.Context(), token)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	if err := h.Sessions.IssueSession(w, u.ID, u.RoleValue(), true); err != nil {
		h.Logger.Error("verify-email: session issuance failed", "error", err, "user_id", u.ID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":        u,
		"redirect_to": u.RoleValue().Home(),
	})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto ForgotPasswordDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := h.Service.ForgotPassword(r.Context(), dto); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	// Same response whether or not the email belongs to an account.
	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "If an account exists for that email, a reset link has been sent.",
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if dto.Token == "" {
		dto.Token = r.URL.Query().Get("token")
	}

	if err := h.Service.ResetPassword(r.Context(), dto); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password has been reset. You can sign in now.",
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteServiceError(w, apperrors.ErrUnauthorized)
		return
	}

	u, err := h.Service.GetByID(r.Context(), sessionUser.ID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.Service.List(r.Context(), limit, offset)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteServiceError(w, apperrors.ErrUnauthorized)
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto AssignRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, svcErr := h.Service.AssignRole(r.Context(), sessionUser, targetID, dto)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}
