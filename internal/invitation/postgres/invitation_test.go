package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/hr-management/internal/invitation"
	invitationPostgres "github.com/frahmantamala/hr-management/internal/invitation/postgres"
	"github.com/frahmantamala/hr-management/internal/user"
)

func TestInvitationPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Invitation Postgres Suite")
}

var _ = Describe("Invitation PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *invitationPostgres.InvitationRepository
		ctx  context.Context
	)

	pending := func(email, token string) *invitation.Invitation {
		now := time.Now()
		return &invitation.Invitation{
			Email:     email,
			Role:      "employee",
			Token:     token,
			InvitedBy: 1,
			InvitedAt: now,
			ExpiresAt: now.Add(72 * time.Hour),
			Status:    invitation.StatusPending,
		}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		// SQLite in-memory database stands in for postgres
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&invitation.Invitation{}, &user.User{})
		Expect(err).NotTo(HaveOccurred())

		repo = invitationPostgres.NewInvitationRepository(db)
	})

	Describe("CreateSuperseding", func() {
		It("should insert a fresh invitation", func() {
			inv := pending("hire@example.com", "token-1")
			Expect(repo.CreateSuperseding(ctx, inv)).To(Succeed())
			Expect(inv.ID).To(BeNumerically(">", 0))
		})

		It("should delete the previous pending invitation for the email", func() {
			first := pending("hire@example.com", "token-1")
			Expect(repo.CreateSuperseding(ctx, first)).To(Succeed())

			second := pending("hire@example.com", "token-2")
			Expect(repo.CreateSuperseding(ctx, second)).To(Succeed())

			_, err := repo.GetByToken(ctx, "token-1")
			Expect(err).To(Equal(invitation.ErrNotFound))

			kept, err := repo.GetByToken(ctx, "token-2")
			Expect(err).NotTo(HaveOccurred())
			Expect(kept.Status).To(Equal(invitation.StatusPending))
		})

		It("should leave terminal invitations for the email alone", func() {
			first := pending("hire@example.com", "token-1")
			Expect(repo.CreateSuperseding(ctx, first)).To(Succeed())
			first.Status = invitation.StatusCancelled
			Expect(repo.Update(ctx, first)).To(Succeed())

			second := pending("hire@example.com", "token-2")
			Expect(repo.CreateSuperseding(ctx, second)).To(Succeed())

			old, err := repo.GetByToken(ctx, "token-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(old.Status).To(Equal(invitation.StatusCancelled))
		})
	})

	Describe("Accept", func() {
		It("should create the user and mark the invitation accepted together", func() {
			inv := pending("hire@example.com", "token-1")
			Expect(repo.CreateSuperseding(ctx, inv)).To(Succeed())

			newUser := &user.User{
				Email:         "hire@example.com",
				PasswordHash:  "hash",
				FirstName:     "New",
				LastName:      "Hire",
				EmailVerified: true,
			}
			Expect(repo.Accept(ctx, inv, newUser)).To(Succeed())
			Expect(newUser.ID).To(BeNumerically(">", 0))

			stored, err := repo.GetByID(ctx, inv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(invitation.StatusAccepted))
			Expect(stored.AcceptedAt).NotTo(BeNil())
			Expect(*stored.UserID).To(Equal(newUser.ID))
		})

		It("should roll back the invitation when the user insert collides", func() {
			existing := &user.User{Email: "hire@example.com", PasswordHash: "h", FirstName: "A", LastName: "B"}
			Expect(db.Create(existing).Error).To(Succeed())

			inv := pending("hire@example.com", "token-1")
			Expect(repo.CreateSuperseding(ctx, inv)).To(Succeed())

			dup := &user.User{Email: "hire@example.com", PasswordHash: "h", FirstName: "C", LastName: "D"}
			err := repo.Accept(ctx, inv, dup)
			Expect(err).To(Equal(user.ErrDuplicateEmail))

			stored, getErr := repo.GetByID(ctx, inv.ID)
			Expect(getErr).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(invitation.StatusPending))
			Expect(stored.UserID).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("should persist status transitions", func() {
			inv := pending("hire@example.com", "token-1")
			Expect(repo.CreateSuperseding(ctx, inv)).To(Succeed())

			inv.Status = invitation.StatusExpired
			Expect(repo.Update(ctx, inv)).To(Succeed())

			stored, err := repo.GetByID(ctx, inv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(invitation.StatusExpired))
		})
	})

	Describe("List", func() {
		It("should return newest invitations first", func() {
			older := pending("a@example.com", "token-a")
			older.InvitedAt = time.Now().Add(-time.Hour)
			Expect(repo.CreateSuperseding(ctx, older)).To(Succeed())

			newer := pending("b@example.com", "token-b")
			Expect(repo.CreateSuperseding(ctx, newer)).To(Succeed())

			invs, err := repo.List(ctx, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(invs).To(HaveLen(2))
			Expect(invs[0].Email).To(Equal("b@example.com"))
		})
	})
})
