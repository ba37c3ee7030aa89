package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	"github.com/frahmantamala/hr-management/internal/mailer"
	"github.com/frahmantamala/hr-management/internal/user"
)

type Service struct {
	repo    Repository
	users   user.Repository
	hasher  *auth.PasswordHasher
	mailer  mailer.Mailer
	logger  *slog.Logger
	baseURL string
	expiry  time.Duration
}

func NewService(repo Repository, users user.Repository, hasher *auth.PasswordHasher, m mailer.Mailer, logger *slog.Logger, baseURL string, expiry time.Duration) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		hasher:  hasher,
		mailer:  m,
		logger:  logger,
		baseURL: baseURL,
		expiry:  expiry,
	}
}

// Create mints a new invitation, superseding any pending one for the same
// email. If the notification mail fails, the freshly created row is deleted
// again: an invitation record must never outlive a failed notification.
func (s *Service) Create(ctx context.Context, requester *apperrors.SessionUser, dto CreateInvitationDTO) (*Invitation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	requesterRole := auth.Role(requester.Role)
	if !requesterRole.CanManageUsers() {
		return nil, apperrors.ErrInsufficientRole
	}

	role, ok := auth.ParseRole(dto.Role)
	if !ok {
		return nil, apperrors.NewValidationError("unknown role", apperrors.ErrCodeInvalidRole)
	}
	if role == auth.RoleSuperadmin && requesterRole != auth.RoleSuperadmin {
		return nil, apperrors.ErrInsufficientRole
	}

	if _, err := s.users.GetByEmail(ctx, dto.Email); err == nil {
		return nil, apperrors.ErrAlreadyRegistered
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, s.storeFailure("create-invitation: user lookup failed", err)
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return nil, apperrors.NewInternalError("Could not create invitation", err)
	}

	now := time.Now()
	inv := &Invitation{
		Email:     dto.Email,
		Role:      string(role),
		Token:     token,
		InvitedBy: requester.ID,
		InvitedAt: now,
		ExpiresAt: now.Add(s.expiry),
		Status:    StatusPending,
	}

	if err := s.repo.CreateSuperseding(ctx, inv); err != nil {
		return nil, s.storeFailure("create-invitation: create failed", err)
	}

	if err := s.mailer.Send(ctx, invitationMail(s.baseURL, inv.Email, string(role), token)); err != nil {
		s.logger.Error("create-invitation: mail failed, rolling back", "error", err, "invitation_id", inv.ID)
		if delErr := s.repo.Delete(ctx, inv.ID); delErr != nil {
			s.logger.Error("create-invitation: compensating delete failed", "error", delErr, "invitation_id", inv.ID)
		}
		return nil, apperrors.NewDependencyError("Could not send invitation email", apperrors.ErrCodeMailFailed, err)
	}

	return inv, nil
}

// Lookup resolves a token to its invitation. A PENDING invitation whose
// expiry has passed is transitioned to EXPIRED as a side effect; repeating
// the call yields the same failure without a second transition.
func (s *Service) Lookup(ctx context.Context, token string) (*Invitation, error) {
	if token == "" {
		return nil, apperrors.NewValidationError("token is required", apperrors.ErrCodeValidationFailed)
	}

	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Invitation not found", apperrors.ErrCodeInvitationNotFound)
		}
		return nil, s.storeFailure("lookup-invitation: query failed", err)
	}

	switch inv.Status {
	case StatusAccepted:
		return nil, apperrors.NewConflictError("Invitation has already been used", apperrors.ErrCodeInvitationAccepted)
	case StatusCancelled:
		return nil, apperrors.NewConflictError("Invitation has been cancelled", apperrors.ErrCodeInvitationCancelled)
	case StatusExpired:
		return nil, apperrors.NewExpiredError("Invitation has expired", apperrors.ErrCodeInvitationExpired)
	}

	if inv.ExpiresAt.Before(time.Now()) {
		inv.Status = StatusExpired
		if err := s.repo.Update(ctx, inv); err != nil {
			return nil, s.storeFailure("lookup-invitation: expiry transition failed", err)
		}
		return nil, apperrors.NewExpiredError("Invitation has expired", apperrors.ErrCodeInvitationExpired)
	}

	return inv, nil
}

// Accept consumes a pending invitation: in one transaction it creates the
// user (with the invitation's role, email pre-verified) and marks the
// invitation ACCEPTED. A second call with the same token fails on the
// status check and creates nothing.
func (s *Service) Accept(ctx context.Context, dto AcceptInvitationDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.Lookup(ctx, dto.Token)
	if err != nil {
		return nil, err
	}

	// The invited person may have signed up directly in the meantime.
	if _, err := s.users.GetByEmail(ctx, inv.Email); err == nil {
		return nil, apperrors.ErrAlreadyRegistered
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, s.storeFailure("accept-invitation: user lookup failed", err)
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("Could not accept invitation", err)
	}

	newUser := &user.User{
		Email:        inv.Email,
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		// The invitation was delivered to this address; that is proof of
		// ownership, so no separate verification round-trip.
		EmailVerified: true,
	}
	newUser.SetRole(auth.Role(inv.Role))

	if err := s.repo.Accept(ctx, inv, newUser); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, s.storeFailure("accept-invitation: transaction failed", err)
	}

	return newUser, nil
}

// Cancel moves a pending invitation to CANCELLED. Terminal invitations are
// left untouched; there is no hard delete on this path.
func (s *Service) Cancel(ctx context.Context, requester *apperrors.SessionUser, id int64) (*Invitation, error) {
	if !auth.Role(requester.Role).CanManageUsers() {
		return nil, apperrors.ErrInsufficientRole
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Invitation not found", apperrors.ErrCodeInvitationNotFound)
		}
		return nil, s.storeFailure("cancel-invitation: lookup failed", err)
	}

	if inv.Status != StatusPending {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("Invitation is %s and cannot be cancelled", inv.Status),
			apperrors.ErrCodeInvitationCancelled)
	}

	inv.Status = StatusCancelled
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, s.storeFailure("cancel-invitation: update failed", err)
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, requester *apperrors.SessionUser, limit, offset int) ([]*Invitation, error) {
	if !auth.Role(requester.Role).CanManageUsers() {
		return nil, apperrors.ErrInsufficientRole
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	invs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, s.storeFailure("list-invitations: query failed", err)
	}
	return invs, nil
}

func (s *Service) storeFailure(msg string, err error) *apperrors.AppError {
	s.logger.Error(msg, "error", err)
	return apperrors.NewDependencyError("A storage error occurred", apperrors.ErrCodeStoreFailed, err)
}
