package department

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

func (s *Service) CreateDepartment(ctx context.Context, dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d := &Department{Name: dto.Name, Description: dto.Description}
	if err := s.repo.CreateDepartment(ctx, d); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, apperrors.NewConflictError("A department with this name already exists", apperrors.ErrCodeDuplicateDepartment)
		}
		return nil, s.storeFailure("create-department failed", err)
	}
	return d, nil
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	d, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Department not found", apperrors.ErrCodeDepartmentNotFound)
		}
		return nil, s.storeFailure("get-department failed", err)
	}
	return d, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	ds, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, s.storeFailure("list-departments failed", err)
	}
	return ds, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}

	d.Name = dto.Name
	d.Description = dto.Description
	if err := s.repo.UpdateDepartment(ctx, d); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, apperrors.NewConflictError("A department with this name already exists", apperrors.ErrCodeDuplicateDepartment)
		}
		return nil, s.storeFailure("update-department failed", err)
	}
	return d, nil
}

// DeleteDepartment refuses to remove a department that still has teams; the
// teams must be moved or deleted first.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountTeams(ctx, id)
	if err != nil {
		return s.storeFailure("delete-department: team count failed", err)
	}
	if count > 0 {
		return apperrors.NewConflictError("Department still has teams", apperrors.ErrCodeDepartmentNotEmpty)
	}

	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return s.storeFailure("delete-department failed", err)
	}
	return nil
}

func (s *Service) CreateTeam(ctx context.Context, dto CreateTeamDTO) (*Team, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.GetDepartment(ctx, dto.DepartmentID); err != nil {
		return nil, err
	}

	t := &Team{Name: dto.Name, DepartmentID: dto.DepartmentID, LeadUserID: dto.LeadUserID}
	if err := s.repo.CreateTeam(ctx, t); err != nil {
		return nil, s.storeFailure("create-team failed", err)
	}
	return t, nil
}

func (s *Service) ListTeams(ctx context.Context, departmentID int64) ([]*Team, error) {
	ts, err := s.repo.ListTeams(ctx, departmentID)
	if err != nil {
		return nil, s.storeFailure("list-teams failed", err)
	}
	return ts, nil
}

func (s *Service) DeleteTeam(ctx context.Context, id int64) error {
	if _, err := s.repo.GetTeam(ctx, id); err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return apperrors.NewNotFoundError("Team not found", apperrors.ErrCodeDepartmentNotFound)
		}
		return s.storeFailure("delete-team: lookup failed", err)
	}
	if err := s.repo.DeleteTeam(ctx, id); err != nil {
		return s.storeFailure("delete-team failed", err)
	}
	return nil
}

func (s *Service) storeFailure(msg string, err error) *apperrors.AppError {
	s.logger.Error(msg, "error", err)
	return apperrors.NewDependencyError("A storage error occurred", apperrors.ErrCodeStoreFailed, err)
}
