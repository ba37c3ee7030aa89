package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/hr-management/internal/invitation"
	"github.com/frahmantamala/hr-management/internal/user"
)

// InvitationRepository implements invitation.Repository using GORM
type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// CreateSuperseding replaces any PENDING invitation for the email inside a
// single transaction, so two rows for one email can never both be pending.
func (r *InvitationRepository) CreateSuperseding(ctx context.Context, inv *invitation.Invitation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ? AND status = ?", inv.Email, invitation.StatusPending).
			Delete(&invitation.Invitation{}).Error; err != nil {
			return err
		}
		return tx.Create(inv).Error
	})
}

func (r *InvitationRepository) GetByID(ctx context.Context, id int64) (*invitation.Invitation, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	return r.getOne(ctx, "token = ?", token)
}

func (r *InvitationRepository) getOne(ctx context.Context, query string, args ...interface{}) (*invitation.Invitation, error) {
	var inv invitation.Invitation
	err := r.db.WithContext(ctx).Where(query, args...).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitation.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepository) Update(ctx context.Context, inv *invitation.Invitation) error {
	return r.db.WithContext(ctx).Model(inv).
		Select("status", "accepted_at", "user_id").
		Updates(inv).Error
}

func (r *InvitationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&invitation.Invitation{}, id).Error
}

func (r *InvitationRepository) List(ctx context.Context, limit, offset int) ([]*invitation.Invitation, error) {
	var invs []*invitation.Invitation
	err := r.db.WithContext(ctx).
		Order("invited_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&invs).Error
	return invs, err
}

// Accept creates the user and marks the invitation ACCEPTED in one
// transaction. Either both rows change or neither does.
func (r *InvitationRepository) Accept(ctx context.Context, inv *invitation.Invitation, newUser *user.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newUser).Error; err != nil {
			if isUniqueViolation(err) {
				return user.ErrDuplicateEmail
			}
			return err
		}

		now := time.Now()
		inv.Status = invitation.StatusAccepted
		inv.AcceptedAt = &now
		inv.UserID = &newUser.ID

		return tx.Model(inv).
			Select("status", "accepted_at", "user_id").
			Updates(inv).Error
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
