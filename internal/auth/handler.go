package auth

import (
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service      *Service
	secureCookie bool
}

func NewHandler(svc *Service, secureCookie bool) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(lg),
		Service:      svc,
		secureCookie: secureCookie,
	}
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var dto SignInDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.SignIn(r.Context(), dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	http.SetCookie(w, NewSessionCookie(result.Token, h.Service.Codec().TTL(), h.secureCookie))
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, ExpiredSessionCookie(h.secureCookie))
	w.WriteHeader(http.StatusNoContent)
}

// IssueSession signs a token for the given user and sets the cookie. Used
// by flows that establish a session as a side effect: email verification,
// invitation acceptance.
func (h *Handler) IssueSession(w http.ResponseWriter, userID int64, role Role, emailVerified bool) error {
	token, err := h.Service.Codec().Encode(userID, role, emailVerified)
	if err != nil {
		return err
	}
	http.SetCookie(w, NewSessionCookie(token, h.Service.Codec().TTL(), h.secureCookie))
	return nil
}

// SessionMiddleware decodes the session cookie and, when valid, attaches
// the principal to the request context. It never rejects by itself; the
// gate and role middlewares decide what an absent session means.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		claims := h.Service.VerifySession(cookie.Value)
		if claims == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := apperrors.ContextWithUser(r.Context(), &apperrors.SessionUser{
			ID:            claims.UserID(),
			Role:          claims.Role,
			EmailVerified: claims.EmailVerified,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GateMiddleware evaluates the pure gate decision for page-style areas and
// answers redirects. API, swagger and document routes are exempt; their
// protection comes from RequireSession and RequireRoles on the route groups.
func (h *Handler) GateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gateExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		var claims *SessionClaims
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			claims = h.Service.VerifySession(cookie.Value)
		}

		decision := Decide(r.URL.Path, claims)
		if !decision.Allow {
			http.Redirect(w, r, decision.Target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession rejects requests that carry no valid session.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := apperrors.UserFromContext(r.Context()); !ok {
			h.WriteServiceError(w, apperrors.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles rejects sessions whose role is outside the allowed set.
func (h *Handler) RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := apperrors.UserFromContext(r.Context())
			if !ok {
				h.WriteServiceError(w, apperrors.ErrUnauthorized)
				return
			}
			if _, ok := allowed[Role(user.Role)]; !ok {
				h.Logger.Warn("access denied: role outside allowed set",
					"user_id", user.ID,
					"role", user.Role)
				h.WriteServiceError(w, apperrors.ErrInsufficientRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
