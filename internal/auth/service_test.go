package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/hr-management/internal"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

const testSecret = "0123456789abcdef0123456789abcdef"

type mockAccountRepository struct {
	accounts    map[string]*Account
	returnError error
}

func newMockAccountRepository(hasher *PasswordHasher) *mockAccountRepository {
	hash, _ := hasher.Hash("correct_password1")
	return &mockAccountRepository{
		accounts: map[string]*Account{
			"employee@example.com": {
				ID: 1, Email: "employee@example.com", PasswordHash: hash,
				FirstName: "Em", LastName: "Ployee",
				Role: RoleEmployee, EmailVerified: true,
			},
			"unverified@example.com": {
				ID: 2, Email: "unverified@example.com", PasswordHash: hash,
				FirstName: "Un", LastName: "Verified",
				Role: RoleEmployee, EmailVerified: false,
			},
			"norole@example.com": {
				ID: 3, Email: "norole@example.com", PasswordHash: hash,
				FirstName: "No", LastName: "Role",
				Role: RoleUnassigned, EmailVerified: true,
			},
		},
	}
}

func (m *mockAccountRepository) GetAccountByEmail(_ context.Context, email string) (*Account, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	if a, ok := m.accounts[email]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockAccountRepository
		hasher   *PasswordHasher
		codec    *SessionCodec
	)

	ginkgo.BeforeEach(func() {
		var err error
		hasher = NewPasswordHasher(10)
		codec, err = NewSessionCodec(testSecret, time.Hour)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		mockRepo = newMockAccountRepository(hasher)
		service = NewService(mockRepo, codec, hasher, slog.Default())
	})

	ginkgo.Describe("SignIn", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return a session token and the role home", func() {
				result, err := service.SignIn(context.Background(), SignInDTO{
					Email:    "employee@example.com",
					Password: "correct_password1",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.Token).ToNot(gomega.BeEmpty())
				gomega.Expect(result.RedirectTo).To(gomega.Equal("/employee"))
				gomega.Expect(result.UserID).To(gomega.Equal(int64(1)))
			})

			ginkgo.It("should embed the role and verified flag in the token", func() {
				result, err := service.SignIn(context.Background(), SignInDTO{
					Email:    "employee@example.com",
					Password: "correct_password1",
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims := codec.Decode(result.Token)
				gomega.Expect(claims).ToNot(gomega.BeNil())
				gomega.Expect(claims.Role).To(gomega.Equal("employee"))
				gomega.Expect(claims.EmailVerified).To(gomega.BeTrue())
				gomega.Expect(claims.UserID()).To(gomega.Equal(int64(1)))
			})

			ginkgo.It("should send a role-less account to the waiting area", func() {
				result, err := service.SignIn(context.Background(), SignInDTO{
					Email:    "norole@example.com",
					Password: "correct_password1",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.RedirectTo).To(gomega.Equal("/user"))
			})
		})

		ginkgo.Context("when credentials are wrong", func() {
			ginkgo.It("should return the generic error for an unknown email", func() {
				_, err := service.SignIn(context.Background(), SignInDTO{
					Email:    "nobody@example.com",
					Password: "correct_password1",
				})

				gomega.Expect(err).To(gomega.Equal(apperrors.ErrInvalidCredentials))
			})

			ginkgo.It("should return the identical error for a wrong password", func() {
				_, wrongPass := service.SignIn(context.Background(), SignInDTO{
					Email:    "employee@example.com",
					Password: "wrong_password1",
				})
				_, unknownEmail := service.SignIn(context.Background(), SignInDTO{
					Email:    "nobody@example.com",
					Password: "correct_password1",
				})

				gomega.Expect(wrongPass).To(gomega.Equal(unknownEmail))
			})
		})

		ginkgo.Context("when the email is not verified", func() {
			ginkgo.It("should refuse with the verification error", func() {
				_, err := service.SignIn(context.Background(), SignInDTO{
					Email:    "unverified@example.com",
					Password: "correct_password1",
				})

				gomega.Expect(err).To(gomega.Equal(apperrors.ErrEmailNotVerified))
			})
		})

		ginkgo.Context("when the input is invalid", func() {
			ginkgo.It("should reject a missing email", func() {
				_, err := service.SignIn(context.Background(), SignInDTO{Password: "x1234567"})
				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})
	})

	ginkgo.Describe("VerifySession", func() {
		ginkgo.It("should return claims for a token it minted", func() {
			token, err := codec.Encode(42, RoleHR, true)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims := service.VerifySession(token)
			gomega.Expect(claims).ToNot(gomega.BeNil())
			gomega.Expect(claims.UserID()).To(gomega.Equal(int64(42)))
		})

		ginkgo.It("should return nil for garbage", func() {
			gomega.Expect(service.VerifySession("not-a-token")).To(gomega.BeNil())
		})
	})
})

var _ = ginkgo.Describe("SessionCodec", func() {
	var codec *SessionCodec

	ginkgo.BeforeEach(func() {
		var err error
		codec, err = NewSessionCodec(testSecret, time.Hour)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("should reject a short secret at construction", func() {
		_, err := NewSessionCodec("too-short", time.Hour)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should round-trip claims", func() {
		token, err := codec.Encode(7, RoleAdmin, true)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims := codec.Decode(token)
		gomega.Expect(claims).ToNot(gomega.BeNil())
		gomega.Expect(claims.UserID()).To(gomega.Equal(int64(7)))
		gomega.Expect(claims.Role).To(gomega.Equal("admin"))
		gomega.Expect(claims.EmailVerified).To(gomega.BeTrue())
	})

	ginkgo.It("should return nil for a token signed with another secret", func() {
		other, err := NewSessionCodec("ffffffffffffffffffffffffffffffff", time.Hour)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		token, err := other.Encode(7, RoleAdmin, true)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(codec.Decode(token)).To(gomega.BeNil())
	})

	ginkgo.It("should return nil for an expired token", func() {
		short, err := NewSessionCodec(testSecret, time.Nanosecond)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		token, err := short.Encode(7, RoleAdmin, true)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		time.Sleep(5 * time.Millisecond)
		gomega.Expect(codec.Decode(token)).To(gomega.BeNil())
	})

	ginkgo.It("should return nil for malformed input", func() {
		gomega.Expect(codec.Decode("")).To(gomega.BeNil())
		gomega.Expect(codec.Decode("a.b.c")).To(gomega.BeNil())
		gomega.Expect(codec.Decode("random text")).To(gomega.BeNil())
	})
})

var _ = ginkgo.Describe("PasswordHasher", func() {
	ginkgo.It("should verify the password it hashed", func() {
		hasher := NewPasswordHasher(10)
		hash, err := hasher.Hash("secret123")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(hasher.Verify("secret123", hash)).To(gomega.BeTrue())
		gomega.Expect(hasher.Verify("secret124", hash)).To(gomega.BeFalse())
	})

	ginkgo.It("should produce distinct hashes for the same password", func() {
		hasher := NewPasswordHasher(10)
		h1, _ := hasher.Hash("secret123")
		h2, _ := hasher.Hash("secret123")
		gomega.Expect(h1).ToNot(gomega.Equal(h2))
	})
})
