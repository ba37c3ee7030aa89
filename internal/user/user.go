package user

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/hr-management/internal/auth"
)

// User is the identity record. Role is nullable: a direct signup starts
// with no role and waits for an admin to assign one. The verification token
// is present only while verification is pending and cleared on success.
type User struct {
	ID                       int64      `json:"id" gorm:"primaryKey"`
	Email                    string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash             string     `json:"-" gorm:"column:password_hash;not null"`
	FirstName                string     `json:"first_name" gorm:"column:first_name;not null"`
	LastName                 string     `json:"last_name" gorm:"column:last_name;not null"`
	Role                     *string    `json:"role" gorm:"column:role"`
	EmailVerified            bool       `json:"email_verified" gorm:"column:email_verified;default:false"`
	EmailVerificationToken   *string    `json:"-" gorm:"column:email_verification_token;uniqueIndex"`
	EmailVerificationExpires *time.Time `json:"-" gorm:"column:email_verification_expires"`
	PasswordResetToken       *string    `json:"-" gorm:"column:password_reset_token"`
	PasswordResetExpires     *time.Time `json:"-" gorm:"column:password_reset_expires"`
	CreatedAt                time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt                time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

// RoleValue maps the nullable column onto the closed role enum.
func (u *User) RoleValue() auth.Role {
	if u.Role == nil {
		return auth.RoleUnassigned
	}
	return auth.Role(*u.Role)
}

func (u *User) SetRole(r auth.Role) {
	s := string(r)
	u.Role = &s
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
	GetByResetToken(ctx context.Context, token string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*User, error)
}
