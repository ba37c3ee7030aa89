package auth

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/hr-management/internal"
)

// Service performs authentication: credential checks, session issuance and
// session verification. Everything role-area related lives in the gate.
type Service struct {
	accounts AccountRepository
	codec    *SessionCodec
	hasher   *PasswordHasher
	logger   *slog.Logger
}

func NewService(accounts AccountRepository, codec *SessionCodec, hasher *PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		codec:    codec,
		hasher:   hasher,
		logger:   logger,
	}
}

func (s *Service) Codec() *SessionCodec {
	return s.codec
}

// SignIn authenticates credentials and mints a session token. Unknown email
// and wrong password produce the identical generic error; an unverified
// email is reported distinctly since the credentials were correct.
func (s *Service) SignIn(ctx context.Context, dto SignInDTO) (*SignInResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetAccountByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a bcrypt comparison anyway so the unknown-email path
			// takes as long as the wrong-password path.
			s.hasher.Verify(dto.Password, "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.Error("sign-in: account lookup failed", "error", err)
		return nil, apperrors.NewDependencyError("Could not sign in right now", apperrors.ErrCodeStoreFailed, err)
	}

	if !s.hasher.Verify(dto.Password, account.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !account.EmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	token, err := s.codec.Encode(account.ID, account.Role, account.EmailVerified)
	if err != nil {
		s.logger.Error("sign-in: token signing failed", "error", err)
		return nil, apperrors.NewInternalError("Could not sign in right now", err)
	}

	return &SignInResult{
		UserID:     account.ID,
		Email:      account.Email,
		FirstName:  account.FirstName,
		LastName:   account.LastName,
		Role:       string(account.Role),
		RedirectTo: account.Role.Home(),
		Token:      token,
	}, nil
}

// VerifySession decodes a session token. Nil means no valid session,
// whatever the reason.
func (s *Service) VerifySession(token string) *SessionClaims {
	return s.codec.Decode(token)
}
