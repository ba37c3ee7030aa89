package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	"github.com/frahmantamala/hr-management/internal/mailer"
)

type Service struct {
	repo    Repository
	hasher  *auth.PasswordHasher
	mailer  mailer.Mailer
	logger  *slog.Logger
	baseURL string

	verificationExpiry time.Duration
	resetExpiry        time.Duration
}

func NewService(repo Repository, hasher *auth.PasswordHasher, m mailer.Mailer, logger *slog.Logger, baseURL string, verificationExpiry, resetExpiry time.Duration) *Service {
	return &Service{
		repo:               repo,
		hasher:             hasher,
		mailer:             m,
		logger:             logger,
		baseURL:            baseURL,
		verificationExpiry: verificationExpiry,
		resetExpiry:        resetExpiry,
	}
}

// SignUp creates an unverified account with no role and emails the
// verification link. If the mail cannot be sent the account row is deleted
// again; an account whose owner never received a link would be stuck.
func (s *Service) SignUp(ctx context.Context, dto SignUpDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, dto.Email); err == nil {
		return nil, apperrors.ErrAlreadyRegistered
	} else if !errors.Is(err, ErrNotFound) {
		return nil, s.storeFailure("sign-up: email lookup failed", err)
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("Could not create account", err)
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return nil, apperrors.NewInternalError("Could not create account", err)
	}
	expires := time.Now().Add(s.verificationExpiry)

	u := &User{
		Email:                    dto.Email,
		PasswordHash:             hash,
		FirstName:                dto.FirstName,
		LastName:                 dto.LastName,
		EmailVerified:            false,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, s.storeFailure("sign-up: create failed", err)
	}

	if err := s.mailer.Send(ctx, verificationMail(s.baseURL, u.Email, u.FirstName, token)); err != nil {
		s.logger.Error("sign-up: verification mail failed, rolling back account", "error", err, "user_id", u.ID)
		if delErr := s.repo.Delete(ctx, u.ID); delErr != nil {
			s.logger.Error("sign-up: compensating delete failed", "error", delErr, "user_id", u.ID)
		}
		return nil, apperrors.NewDependencyError("Could not send verification email", apperrors.ErrCodeMailFailed, err)
	}

	return u, nil
}

// VerifyEmail consumes a verification token: marks the account verified and
// clears the token. The token survives a failed attempt (e.g. expired link
// lookups do not mutate) but never survives success.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, apperrors.NewValidationError("token is required", apperrors.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Verification link is invalid", apperrors.ErrCodeTokenNotFound)
		}
		return nil, s.storeFailure("verify-email: lookup failed", err)
	}

	if u.EmailVerificationExpires != nil && u.EmailVerificationExpires.Before(time.Now()) {
		return nil, apperrors.NewExpiredError("Verification link has expired", apperrors.ErrCodeTokenExpired)
	}

	u.EmailVerified = true
	u.EmailVerificationToken = nil
	u.EmailVerificationExpires = nil
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, s.storeFailure("verify-email: update failed", err)
	}

	return u, nil
}

// ForgotPassword always reports success so the endpoint cannot be used to
// probe which emails have accounts. Failures are logged only.
func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("forgot-password: lookup failed", "error", err)
		}
		return nil
	}

	token, err := auth.GenerateToken()
	if err != nil {
		s.logger.Error("forgot-password: token generation failed", "error", err)
		return nil
	}
	expires := time.Now().Add(s.resetExpiry)

	u.PasswordResetToken = &token
	u.PasswordResetExpires = &expires
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("forgot-password: update failed", "error", err, "user_id", u.ID)
		return nil
	}

	if err := s.mailer.Send(ctx, passwordResetMail(s.baseURL, u.Email, u.FirstName, token)); err != nil {
		s.logger.Error("forgot-password: mail failed", "error", err, "user_id", u.ID)
	}
	return nil
}

// ResetPassword consumes a reset token. The stored token is cleared on
// every outcome path that reaches it, expired included; a reset link is
// single-use.
func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByResetToken(ctx, dto.Token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.NewNotFoundError("Reset link is invalid", apperrors.ErrCodeTokenNotFound)
		}
		return s.storeFailure("reset-password: lookup failed", err)
	}

	expired := u.PasswordResetExpires != nil && u.PasswordResetExpires.Before(time.Now())

	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil

	if expired {
		if err := s.repo.Update(ctx, u); err != nil {
			return s.storeFailure("reset-password: clearing expired token failed", err)
		}
		return apperrors.NewExpiredError("Reset link has expired", apperrors.ErrCodeTokenExpired)
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return apperrors.NewInternalError("Could not reset password", err)
	}
	u.PasswordHash = hash

	if err := s.repo.Update(ctx, u); err != nil {
		return s.storeFailure("reset-password: update failed", err)
	}
	return nil
}

// AssignRole lets an admin or superadmin set the role of an account.
// Granting superadmin is reserved to superadmins.
func (s *Service) AssignRole(ctx context.Context, requester *apperrors.SessionUser, targetID int64, dto AssignRoleDTO) (*User, error) {
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

	u, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found", apperrors.ErrCodeUserNotFound)
		}
		return nil, s.storeFailure("assign-role: lookup failed", err)
	}

	u.SetRole(role)
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, s.storeFailure("assign-role: update failed", err)
	}

	// Sessions issued before this change keep their old role claim until
	// they expire naturally.
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found", apperrors.ErrCodeUserNotFound)
		}
		return nil, s.storeFailure("get-user: lookup failed", err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, s.storeFailure("list-users: query failed", err)
	}
	return users, nil
}

func (s *Service) storeFailure(msg string, err error) *apperrors.AppError {
	s.logger.Error(msg, "error", err)
	return apperrors.NewDependencyError("A storage error occurred", apperrors.ErrCodeStoreFailed, err)
}
