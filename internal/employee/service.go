package employee

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/frahmantamala/hr-management/internal"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e := &Employee{
		UserID:       dto.UserID,
		JobTitle:     dto.JobTitle,
		DepartmentID: dto.DepartmentID,
		TeamID:       dto.TeamID,
		HireDate:     dto.HireDate,
		Phone:        dto.Phone,
		Address:      dto.Address,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperrors.NewConflictError("An employee profile already exists for this user", apperrors.ErrCodeEmployeeExists)
		}
		return nil, s.storeFailure("create-employee failed", err)
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Employee not found", apperrors.ErrCodeEmployeeNotFound)
		}
		return nil, s.storeFailure("get-employee failed", err)
	}
	return e, nil
}

// GetOwnProfile returns the profile bound to the signed-in user.
func (s *Service) GetOwnProfile(ctx context.Context, userID int64) (*Employee, error) {
	e, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Employee profile not found", apperrors.ErrCodeEmployeeNotFound)
		}
		return nil, s.storeFailure("get-own-profile failed", err)
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e.JobTitle = dto.JobTitle
	e.DepartmentID = dto.DepartmentID
	e.TeamID = dto.TeamID
	e.HireDate = dto.HireDate
	e.Phone = dto.Phone
	e.Address = dto.Address
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, s.storeFailure("update-employee failed", err)
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeFailure("delete-employee failed", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, departmentID int64) ([]*Employee, error) {
	es, err := s.repo.List(ctx, departmentID)
	if err != nil {
		return nil, s.storeFailure("list-employees failed", err)
	}
	return es, nil
}

func (s *Service) storeFailure(msg string, err error) *apperrors.AppError {
	s.logger.Error(msg, "error", err)
	return apperrors.NewDependencyError("A storage error occurred", apperrors.ErrCodeStoreFailed, err)
}
