package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/hr-management/internal/payslip"
)

// PayslipRepository implements payslip.Repository using GORM
type PayslipRepository struct {
	db *gorm.DB
}

func NewPayslipRepository(db *gorm.DB) *PayslipRepository {
	return &PayslipRepository{db: db}
}

func (r *PayslipRepository) Create(ctx context.Context, p *payslip.Payslip) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PayslipRepository) GetByID(ctx context.Context, id int64) (*payslip.Payslip, error) {
	var p payslip.Payslip
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payslip.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PayslipRepository) ListForUser(ctx context.Context, userID int64) ([]*payslip.Payslip, error) {
	var ps []*payslip.Payslip
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("period DESC").
		Find(&ps).Error
	return ps, err
}

func (r *PayslipRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&payslip.Payslip{}, id).Error
}
