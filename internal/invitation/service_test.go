package invitation

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	"github.com/frahmantamala/hr-management/internal/mailer"
	"github.com/frahmantamala/hr-management/internal/user"
)

func TestInvitation(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Invitation Module Suite")
}

type mockInvitationRepository struct {
	invitations map[int64]*Invitation
	users       *mockUserStore
	nextID      int64
}

type mockUserStore struct {
	users  map[string]*user.User
	nextID int64
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: map[string]*user.User{}, nextID: 1}
}

func (m *mockUserStore) Create(_ context.Context, u *user.User) error {
	if _, ok := m.users[u.Email]; ok {
		return user.ErrDuplicateEmail
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.Email] = u
	return nil
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (m *mockUserStore) GetByVerificationToken(_ context.Context, token string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (m *mockUserStore) GetByResetToken(_ context.Context, token string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (m *mockUserStore) Update(_ context.Context, u *user.User) error { return nil }

func (m *mockUserStore) Delete(_ context.Context, id int64) error { return nil }

func (m *mockUserStore) List(_ context.Context, limit, offset int) ([]*user.User, error) {
	return nil, nil
}

func newMockInvitationRepository(users *mockUserStore) *mockInvitationRepository {
	return &mockInvitationRepository{
		invitations: map[int64]*Invitation{},
		users:       users,
		nextID:      1,
	}
}

func (m *mockInvitationRepository) CreateSuperseding(_ context.Context, inv *Invitation) error {
	for id, existing := range m.invitations {
		if existing.Email == inv.Email && existing.Status == StatusPending {
			delete(m.invitations, id)
		}
	}
	inv.ID = m.nextID
	m.nextID++
	m.invitations[inv.ID] = inv
	return nil
}

func (m *mockInvitationRepository) GetByID(_ context.Context, id int64) (*Invitation, error) {
	if inv, ok := m.invitations[id]; ok {
		return inv, nil
	}
	return nil, ErrNotFound
}

func (m *mockInvitationRepository) GetByToken(_ context.Context, token string) (*Invitation, error) {
	for _, inv := range m.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockInvitationRepository) Update(_ context.Context, inv *Invitation) error {
	if _, ok := m.invitations[inv.ID]; !ok {
		return ErrNotFound
	}
	m.invitations[inv.ID] = inv
	return nil
}

func (m *mockInvitationRepository) Delete(_ context.Context, id int64) error {
	delete(m.invitations, id)
	return nil
}

func (m *mockInvitationRepository) List(_ context.Context, limit, offset int) ([]*Invitation, error) {
	var out []*Invitation
	for _, inv := range m.invitations {
		out = append(out, inv)
	}
	return out, nil
}

func (m *mockInvitationRepository) Accept(ctx context.Context, inv *Invitation, newUser *user.User) error {
	if err := m.users.Create(ctx, newUser); err != nil {
		return err
	}
	now := time.Now()
	inv.Status = StatusAccepted
	inv.AcceptedAt = &now
	inv.UserID = &newUser.ID
	m.invitations[inv.ID] = inv
	return nil
}

type mockMailer struct {
	sent    []mailer.Message
	failure error
}

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.failure != nil {
		return m.failure
	}
	m.sent = append(m.sent, msg)
	return nil
}

var _ = ginkgo.Describe("InvitationService", func() {
	var (
		service  *Service
		repo     *mockInvitationRepository
		users    *mockUserStore
		mockMail *mockMailer
	)

	admin := &apperrors.SessionUser{ID: 1, Role: "admin"}
	superadmin := &apperrors.SessionUser{ID: 2, Role: "superadmin"}
	employee := &apperrors.SessionUser{ID: 3, Role: "employee"}

	ginkgo.BeforeEach(func() {
		users = newMockUserStore()
		repo = newMockInvitationRepository(users)
		mockMail = &mockMailer{}
		service = NewService(repo, users, auth.NewPasswordHasher(10), mockMail,
			slog.Default(), "http://localhost:3000", 72*time.Hour)
	})

	invite := func(requester *apperrors.SessionUser, email, role string) *Invitation {
		inv, err := service.Create(context.Background(), requester, CreateInvitationDTO{Email: email, Role: role})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return inv
	}

	ginkgo.Describe("Create", func() {
		ginkgo.It("should mint a pending invitation and mail the link", func() {
			inv := invite(admin, "newhire@example.com", "employee")

			gomega.Expect(inv.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(inv.Token).ToNot(gomega.BeEmpty())
			gomega.Expect(inv.InvitedBy).To(gomega.Equal(int64(1)))
			gomega.Expect(mockMail.sent).To(gomega.HaveLen(1))
			gomega.Expect(mockMail.sent[0].HTMLBody).To(gomega.ContainSubstring("accept-invitation?token="))
		})

		ginkgo.It("should supersede a pending invitation for the same email", func() {
			first := invite(admin, "newhire@example.com", "employee")
			second := invite(admin, "newhire@example.com", "hr")

			_, err := repo.GetByID(context.Background(), first.ID)
			gomega.Expect(err).To(gomega.Equal(ErrNotFound))

			_, err = service.Lookup(context.Background(), first.Token)
			gomega.Expect(err).To(gomega.HaveOccurred())

			kept, err := service.Lookup(context.Background(), second.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(kept.Role).To(gomega.Equal("hr"))
		})

		ginkgo.It("should refuse a requester who cannot manage users", func() {
			_, err := service.Create(context.Background(), employee, CreateInvitationDTO{
				Email: "newhire@example.com", Role: "employee",
			})
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInsufficientRole))
		})

		ginkgo.It("should reserve superadmin invitations to superadmins", func() {
			_, err := service.Create(context.Background(), admin, CreateInvitationDTO{
				Email: "boss@example.com", Role: "superadmin",
			})
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInsufficientRole))

			inv := invite(superadmin, "boss@example.com", "superadmin")
			gomega.Expect(inv.Role).To(gomega.Equal("superadmin"))
		})

		ginkgo.It("should refuse an email that already has an account", func() {
			gomega.Expect(users.Create(context.Background(), &user.User{Email: "taken@example.com"})).To(gomega.Succeed())

			_, err := service.Create(context.Background(), admin, CreateInvitationDTO{
				Email: "taken@example.com", Role: "employee",
			})
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrAlreadyRegistered))
		})

		ginkgo.It("should delete the invitation again when the mail fails", func() {
			mockMail.failure = errors.New("smtp down")

			_, err := service.Create(context.Background(), admin, CreateInvitationDTO{
				Email: "newhire@example.com", Role: "employee",
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.invitations).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Lookup", func() {
		ginkgo.It("should transition a stale pending invitation to expired exactly once", func() {
			inv := invite(admin, "newhire@example.com", "employee")
			inv.ExpiresAt = time.Now().Add(-time.Minute)

			_, err := service.Lookup(context.Background(), inv.Token)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.invitations[inv.ID].Status).To(gomega.Equal(StatusExpired))

			// A second lookup hits the terminal status and fails the same way.
			_, err2 := service.Lookup(context.Background(), inv.Token)
			gomega.Expect(err2).To(gomega.HaveOccurred())
			gomega.Expect(repo.invitations[inv.ID].Status).To(gomega.Equal(StatusExpired))
		})

		ginkgo.It("should report an unknown token as not found", func() {
			_, err := service.Lookup(context.Background(), "nope")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Accept", func() {
		ginkgo.It("should create a verified user with the invitation's role", func() {
			inv := invite(admin, "newhire@example.com", "hr")

			u, err := service.Accept(context.Background(), AcceptInvitationDTO{
				Token: inv.Token, FirstName: "New", LastName: "Hire", Password: "password1",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.EmailVerified).To(gomega.BeTrue())
			gomega.Expect(u.RoleValue()).To(gomega.Equal(auth.RoleHR))

			stored := repo.invitations[inv.ID]
			gomega.Expect(stored.Status).To(gomega.Equal(StatusAccepted))
			gomega.Expect(stored.UserID).ToNot(gomega.BeNil())
			gomega.Expect(*stored.UserID).To(gomega.Equal(u.ID))
		})

		ginkgo.It("should fail a second accept and create no second user", func() {
			inv := invite(admin, "newhire@example.com", "employee")

			_, err := service.Accept(context.Background(), AcceptInvitationDTO{
				Token: inv.Token, FirstName: "New", LastName: "Hire", Password: "password1",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Accept(context.Background(), AcceptInvitationDTO{
				Token: inv.Token, FirstName: "Second", LastName: "Try", Password: "password1",
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(users.users).To(gomega.HaveLen(1))
		})

		ginkgo.It("should refuse when the address signed up directly in the meantime", func() {
			inv := invite(admin, "newhire@example.com", "employee")
			gomega.Expect(users.Create(context.Background(), &user.User{Email: "newhire@example.com"})).To(gomega.Succeed())

			_, err := service.Accept(context.Background(), AcceptInvitationDTO{
				Token: inv.Token, FirstName: "New", LastName: "Hire", Password: "password1",
			})
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrAlreadyRegistered))
		})
	})

	ginkgo.Describe("Cancel", func() {
		ginkgo.It("should move a pending invitation to cancelled", func() {
			inv := invite(admin, "newhire@example.com", "employee")

			cancelled, err := service.Cancel(context.Background(), admin, inv.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cancelled.Status).To(gomega.Equal(StatusCancelled))
		})

		ginkgo.It("should refuse to cancel an accepted invitation", func() {
			inv := invite(admin, "newhire@example.com", "employee")
			_, err := service.Accept(context.Background(), AcceptInvitationDTO{
				Token: inv.Token, FirstName: "New", LastName: "Hire", Password: "password1",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Cancel(context.Background(), admin, inv.ID)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should refuse a requester who cannot manage users", func() {
			inv := invite(admin, "newhire@example.com", "employee")

			_, err := service.Cancel(context.Background(), employee, inv.ID)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInsufficientRole))
		})
	})
})
