package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/hr-management/internal/auth"
	"github.com/frahmantamala/hr-management/internal/user"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && isUniqueViolation(err) {
		return user.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	return r.getOne(ctx, "email_verification_token = ?", token)
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*user.User, error) {
	return r.getOne(ctx, "password_reset_token = ?", token)
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()
	// Save skips zero values for cleared tokens, so write the nullable
	// columns explicitly.
	return r.db.WithContext(ctx).Model(u).
		Select("email", "password_hash", "first_name", "last_name", "role",
			"email_verified", "email_verification_token", "email_verification_expires",
			"password_reset_token", "password_reset_expires", "updated_at").
		Updates(u).Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&user.User{}, id).Error
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	var users []*user.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

// GetAccountByEmail adapts the user row to the auth service's account view.
func (r *UserRepository) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &auth.Account{
		ID:            u.ID,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.RoleValue(),
		EmailVerified: u.EmailVerified,
	}, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
