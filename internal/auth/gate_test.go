package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func claimsFor(role Role) *SessionClaims {
	return &SessionClaims{Role: string(role), EmailVerified: true}
}

var _ = ginkgo.Describe("Gate", func() {
	ginkgo.Describe("Decide", func() {
		ginkgo.Context("without a session", func() {
			ginkgo.It("should allow public paths", func() {
				for _, path := range []string{"/", "/sign-in", "/sign-up", "/verify-email", "/forgot-password", "/reset-password", "/accept-invitation"} {
					d := Decide(path, nil)
					gomega.Expect(d.Allow).To(gomega.BeTrue(), "path %s", path)
				}
			})

			ginkgo.It("should redirect protected paths to sign-in", func() {
				d := Decide("/hr/employees", nil)
				gomega.Expect(d.Allow).To(gomega.BeFalse())
				gomega.Expect(d.Target).To(gomega.Equal("/sign-in"))
			})
		})

		ginkgo.Context("with a session on a public path", func() {
			ginkgo.It("should bounce to the role home", func() {
				d := Decide("/sign-in", claimsFor(RoleAdmin))
				gomega.Expect(d.Allow).To(gomega.BeFalse())
				gomega.Expect(d.Target).To(gomega.Equal("/admin"))
			})

			ginkgo.It("should bounce a role-less session to the waiting area", func() {
				d := Decide("/", claimsFor(RoleUnassigned))
				gomega.Expect(d.Allow).To(gomega.BeFalse())
				gomega.Expect(d.Target).To(gomega.Equal("/user"))
			})
		})

		ginkgo.Context("with a session in the wrong role area", func() {
			ginkgo.It("should redirect to the role home, not sign-in", func() {
				d := Decide("/admin/users", claimsFor(RoleEmployee))
				gomega.Expect(d.Allow).To(gomega.BeFalse())
				gomega.Expect(d.Target).To(gomega.Equal("/employee"))
			})

			ginkgo.It("should keep an hr user out of the employee area", func() {
				d := Decide("/employee/profile", claimsFor(RoleHR))
				gomega.Expect(d.Allow).To(gomega.BeFalse())
				gomega.Expect(d.Target).To(gomega.Equal("/hr"))
			})
		})

		ginkgo.Context("with a session in its own area", func() {
			ginkgo.It("should allow the request", func() {
				gomega.Expect(Decide("/employee", claimsFor(RoleEmployee)).Allow).To(gomega.BeTrue())
				gomega.Expect(Decide("/employee/attendance", claimsFor(RoleEmployee)).Allow).To(gomega.BeTrue())
				gomega.Expect(Decide("/superadmin/settings", claimsFor(RoleSuperadmin)).Allow).To(gomega.BeTrue())
			})
		})
	})

	ginkgo.Describe("Role homes", func() {
		ginkgo.It("should map every role to its area", func() {
			gomega.Expect(RoleSuperadmin.Home()).To(gomega.Equal("/superadmin"))
			gomega.Expect(RoleAdmin.Home()).To(gomega.Equal("/admin"))
			gomega.Expect(RoleHR.Home()).To(gomega.Equal("/hr"))
			gomega.Expect(RoleEmployee.Home()).To(gomega.Equal("/employee"))
			gomega.Expect(RoleUnassigned.Home()).To(gomega.Equal("/user"))
		})
	})
})

var _ = ginkgo.Describe("GateMiddleware", func() {
	var (
		handler *Handler
		codec   *SessionCodec
	)

	ginkgo.BeforeEach(func() {
		var err error
		codec, err = NewSessionCodec(testSecret, time.Hour)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		handler = NewHandler(NewService(nil, codec, NewPasswordHasher(10), slog.Default()), false)
	})

	// serve runs one request through the middleware and reports whether the
	// wrapped handler was reached.
	serve := func(method, path, token string) (*httptest.ResponseRecorder, bool) {
		reached := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		}
		rec := httptest.NewRecorder()
		handler.GateMiddleware(next).ServeHTTP(rec, req)
		return rec, reached
	}

	ginkgo.It("should let an anonymous request reach the sign-in endpoint", func() {
		rec, reached := serve(http.MethodPost, "/api/v1/auth/sign-in", "")
		gomega.Expect(reached).To(gomega.BeTrue())
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("should let an anonymous request reach the health endpoint", func() {
		_, reached := serve(http.MethodGet, "/api/v1/health", "")
		gomega.Expect(reached).To(gomega.BeTrue())
	})

	ginkgo.It("should let a signed-in employee reach API routes", func() {
		token, err := codec.Encode(1, RoleEmployee, true)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		rec, reached := serve(http.MethodPost, "/api/v1/attendance/check-in", token)
		gomega.Expect(reached).To(gomega.BeTrue())
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("should let the documentation routes through", func() {
		_, reached := serve(http.MethodGet, "/swagger/index.html", "")
		gomega.Expect(reached).To(gomega.BeTrue())

		_, reached = serve(http.MethodGet, "/openapi.yml", "")
		gomega.Expect(reached).To(gomega.BeTrue())
	})

	ginkgo.It("should still redirect anonymous page navigation to sign-in", func() {
		rec, reached := serve(http.MethodGet, "/hr/employees", "")
		gomega.Expect(reached).To(gomega.BeFalse())
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusSeeOther))
		gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/sign-in"))
	})

	ginkgo.It("should still bounce a session out of the wrong page area", func() {
		token, err := codec.Encode(1, RoleEmployee, true)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		rec, reached := serve(http.MethodGet, "/admin/users", token)
		gomega.Expect(reached).To(gomega.BeFalse())
		gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/employee"))
	})
})

var _ = ginkgo.Describe("Session cookie", func() {
	ginkgo.It("should carry the browser contract attributes", func() {
		c := NewSessionCookie("token", 7*24*time.Hour, true)
		gomega.Expect(c.Name).To(gomega.Equal("session"))
		gomega.Expect(c.HttpOnly).To(gomega.BeTrue())
		gomega.Expect(c.Secure).To(gomega.BeTrue())
		gomega.Expect(c.SameSite).To(gomega.Equal(http.SameSiteLaxMode))
		gomega.Expect(c.Path).To(gomega.Equal("/"))
		gomega.Expect(c.MaxAge).To(gomega.Equal(int((7 * 24 * time.Hour).Seconds())))
	})

	ginkgo.It("should delete the cookie on sign-out", func() {
		c := ExpiredSessionCookie(true)
		gomega.Expect(c.MaxAge).To(gomega.BeNumerically("<", 0))
		gomega.Expect(c.Value).To(gomega.BeEmpty())
	})
})
