package auth

import (
	"context"
	"net/http"
	"time"
)

// Role is the closed set of access levels. Adding a role means updating the
// constants and the exhaustive switch in Home; there is no dynamic lookup
// table to silently miss an entry.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleEmployee   Role = "employee"
	// RoleUnassigned marks an account that signed up directly and is still
	// waiting for an admin to assign a role.
	RoleUnassigned Role = ""
)

// Home is the fixed landing path for a role, used for post-auth redirects
// and for scoping role areas.
func (r Role) Home() string {
	switch r {
	case RoleSuperadmin:
		return "/superadmin"
	case RoleAdmin:
		return "/admin"
	case RoleHR:
		return "/hr"
	case RoleEmployee:
		return "/employee"
	default:
		return "/user"
	}
}

// Assignable reports whether r is a role an admin may grant.
func (r Role) Assignable() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// CanManageUsers reports whether r may invite users, assign roles and
// cancel invitations.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// CanManageHR reports whether r may act in the HR area (employee records,
// leave approvals, payslip uploads).
func (r Role) CanManageHR() bool {
	return r == RoleHR || r == RoleAdmin || r == RoleSuperadmin
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Assignable()
}

// Account is the minimal identity view the auth service needs to sign a
// user in. The user package adapts its repository to this shape.
type Account struct {
	ID            int64
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Role          Role
	EmailVerified bool
}

type AccountRepository interface {
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
}

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// NewSessionCookie wraps a signed session token in the cookie attributes the
// browser contract requires: HttpOnly, Secure, SameSite=Lax, Path=/.
func NewSessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie returns a cookie that deletes the session on the
// client, used for sign-out.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
