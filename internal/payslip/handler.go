package payslip

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	apperrors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

const maxUploadBytes = 10 << 20 // 10 MiB

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

// Upload accepts multipart form data: file, user_id, period.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	userID, err := strconv.ParseInt(r.FormValue("user_id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "a file field is required")
		return
	}
	defer file.Close()

	p, svcErr := h.Service.Upload(r.Context(), su, userID,
		r.FormValue("period"), header.Filename, header.Header.Get("Content-Type"), file)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// Download streams the file with a Content-Disposition attachment header.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payslip id")
		return
	}

	p, rc, svcErr := h.Service.Download(r.Context(), su, id)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	defer rc.Close()

	contentType := p.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(p.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.OriginalFilename))
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("payslip stream interrupted", "payslip_id", p.ID, "error", err)
	}
}

// ListMine lists the signed-in user's own payslips.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	ps, err := h.Service.ListForUser(r.Context(), su, su.ID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ps)
}

// ListForUser lists any user's payslips, for HR staff.
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ps, svcErr := h.Service.ListForUser(r.Context(), su, userID)
	if svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	h.WriteJSON(w, http.StatusOK, ps)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	su, ok := apperrors.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payslip id")
		return
	}

	if svcErr := h.Service.Delete(r.Context(), su, id); svcErr != nil {
		h.WriteServiceError(w, svcErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
