package auth

import "strings"

// publicPaths are reachable without a session. A signed-in user hitting one
// of these is bounced to their role home instead.
var publicPaths = map[string]struct{}{
	"/":                  {},
	"/sign-in":           {},
	"/sign-up":           {},
	"/verify-email":      {},
	"/forgot-password":   {},
	"/reset-password":    {},
	"/accept-invitation": {},
}

const signInPath = "/sign-in"

// gateExemptPrefixes are served by the JSON API and the documentation
// routes. Those carry their own session and role guards, so the page gate
// never answers for them.
var gateExemptPrefixes = []string{"/api/", "/swagger/"}

func gateExempt(path string) bool {
	for _, prefix := range gateExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return path == "/openapi.yml"
}

// Decision is the outcome of a gate check. Either the request may proceed
// or it must be redirected to Target.
type Decision struct {
	Allow  bool
	Target string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(target string) Decision {
	return Decision{Target: target}
}

// Decide is the pure authorization function evaluated before any handler:
//
//   - no session, protected path  -> redirect to sign-in
//   - session, public path        -> redirect to the role's home
//   - session, wrong role area    -> redirect to the role's home
//   - otherwise                   -> allow
//
// It has no side effects and is safe to call any number of times for the
// same request.
func Decide(path string, claims *SessionClaims) Decision {
	public := isPublic(path)

	if claims == nil {
		if public {
			return allow()
		}
		return redirect(signInPath)
	}

	home := Role(claims.Role).Home()
	if public {
		return redirect(home)
	}

	if leadingSegment(path) != leadingSegment(home) {
		return redirect(home)
	}
	return allow()
}

func isPublic(path string) bool {
	trimmed := strings.TrimSuffix(path, "/")
	if trimmed == "" {
		trimmed = "/"
	}
	_, ok := publicPaths[trimmed]
	return ok
}

func leadingSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
