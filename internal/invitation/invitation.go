package invitation

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/hr-management/internal/user"
)

// Status is the invitation state. PENDING is the only non-terminal state;
// ACCEPTED, EXPIRED and CANCELLED never transition again.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// Invitation is a pre-authorized, role-assigning offer to create an
// account, delivered as an emailed token. At most one PENDING invitation
// exists per email; re-inviting supersedes the previous one.
type Invitation struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	Email      string     `json:"email" gorm:"not null;index"`
	Role       string     `json:"role" gorm:"not null"`
	Token      string     `json:"-" gorm:"uniqueIndex;not null"`
	InvitedBy  int64      `json:"invited_by" gorm:"column:invited_by;not null"`
	InvitedAt  time.Time  `json:"invited_at" gorm:"column:invited_at;not null"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"column:expires_at;not null"`
	Status     Status     `json:"status" gorm:"not null;default:PENDING"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty" gorm:"column:accepted_at"`
	UserID     *int64     `json:"user_id,omitempty" gorm:"column:user_id"`
}

func (Invitation) TableName() string {
	return "user_invitations"
}

var ErrNotFound = errors.New("invitation not found")

type Repository interface {
	// CreateSuperseding deletes any PENDING invitation for the same email
	// and inserts the new one, in a single transaction.
	CreateSuperseding(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id int64) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	Update(ctx context.Context, inv *Invitation) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Invitation, error)
	// Accept atomically creates the user and marks the invitation
	// ACCEPTED with the new user's id.
	Accept(ctx context.Context, inv *Invitation, newUser *user.User) error
}
