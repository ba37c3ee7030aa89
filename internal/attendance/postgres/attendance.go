package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/frahmantamala/hr-management/internal/attendance"
)

// AttendanceRepository implements attendance.Repository using GORM
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AttendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	a.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(a).
		Select("check_out_at", "check_out_lat", "check_out_lng", "status", "updated_at").
		Updates(a).Error
}

func (r *AttendanceRepository) GetOpenForDay(ctx context.Context, userID int64, day time.Time) (*attendance.Attendance, error) {
	var a attendance.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date = ? AND check_out_at IS NULL", userID, day).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttendanceRepository) GetForDay(ctx context.Context, userID int64, day time.Time) (*attendance.Attendance, error) {
	var a attendance.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date = ?", userID, day).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttendanceRepository) ListForUser(ctx context.Context, userID int64, from, to time.Time) ([]*attendance.Attendance, error) {
	var as []*attendance.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date BETWEEN ? AND ?", userID, from, to).
		Order("work_date DESC").
		Find(&as).Error
	return as, err
}

func (r *AttendanceRepository) ListForDay(ctx context.Context, day time.Time) ([]*attendance.Attendance, error) {
	var as []*attendance.Attendance
	err := r.db.WithContext(ctx).
		Where("work_date = ?", day).
		Order("check_in_at ASC").
		Find(&as).Error
	return as, err
}

// ReportRepository runs the aggregate report queries over sqlx.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const monthlySummaryQuery = `
SELECT u.id AS user_id,
       u.email,
       u.first_name,
       u.last_name,
       COUNT(a.id) AS days_present,
       COUNT(a.id) FILTER (WHERE a.status = 'LATE') AS days_late
FROM users u
JOIN attendances a ON a.user_id = u.id
WHERE a.work_date >= $1 AND a.work_date < $2
GROUP BY u.id, u.email, u.first_name, u.last_name
ORDER BY u.id`

func (r *ReportRepository) MonthlySummary(ctx context.Context, year int, month time.Month) ([]*attendance.MonthlySummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var rows []*attendance.MonthlySummary
	if err := r.db.SelectContext(ctx, &rows, monthlySummaryQuery, start, end); err != nil {
		return nil, err
	}
	return rows, nil
}
