package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/hr-management/internal/leave"
)

// LeaveRepository implements leave.Repository using GORM
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, lr *leave.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := r.db.WithContext(ctx).First(&lr, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leave.ErrNotFound
		}
		return nil, err
	}
	return &lr, nil
}

func (r *LeaveRepository) Update(ctx context.Context, lr *leave.LeaveRequest) error {
	lr.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(lr).
		Select("status", "reviewed_by", "reviewed_at", "updated_at").
		Updates(lr).Error
}

func (r *LeaveRepository) ListForUser(ctx context.Context, userID int64) ([]*leave.LeaveRequest, error) {
	var lrs []*leave.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&lrs).Error
	return lrs, err
}

func (r *LeaveRepository) ListByStatus(ctx context.Context, status string) ([]*leave.LeaveRequest, error) {
	var lrs []*leave.LeaveRequest
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&lrs).Error
	return lrs, err
}

func (r *LeaveRepository) CountOverlapping(ctx context.Context, userID int64, start, end time.Time, excludeID int64) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&leave.LeaveRequest{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{leave.StatusPending, leave.StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count, err
}
