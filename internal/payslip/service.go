package payslip

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	apperrors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Service struct {
	repo   Repository
	store  Store
	logger *slog.Logger
}

func NewService(repo Repository, store Store, logger *slog.Logger) *Service {
	return &Service{repo: repo, store: store, logger: logger}
}

// Upload stores the file under a generated name, then the metadata row. If
// the row cannot be written the file is removed again.
func (s *Service) Upload(ctx context.Context, uploader *apperrors.SessionUser, userID int64, period, filename, contentType string, body io.Reader) (*Payslip, error) {
	if !auth.Role(uploader.Role).CanManageHR() {
		return nil, apperrors.ErrInsufficientRole
	}
	if !periodPattern.MatchString(period) {
		return nil, apperrors.NewValidationError("period must be formatted YYYY-MM", apperrors.ErrCodeValidationFailed)
	}
	if filename == "" {
		return nil, apperrors.NewValidationError("a file is required", apperrors.ErrCodeValidationFailed)
	}

	storedName := uuid.NewString()
	size, err := s.store.Save(storedName, body)
	if err != nil {
		s.logger.Error("payslip upload: file save failed", "error", err)
		return nil, apperrors.NewDependencyError("Could not store the payslip file", apperrors.ErrCodeStoreFailed, err)
	}

	p := &Payslip{
		UserID:           userID,
		Period:           period,
		OriginalFilename: filename,
		StoredName:       storedName,
		SizeBytes:        size,
		ContentType:      contentType,
		UploadedBy:       uploader.ID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if rmErr := s.store.Remove(storedName); rmErr != nil {
			s.logger.Error("payslip upload: orphan file cleanup failed", "stored_name", storedName, "error", rmErr)
		}
		return nil, s.storeFailure("payslip upload: metadata write failed", err)
	}
	return p, nil
}

// Download opens the file for the given payslip. Employees may only fetch
// their own; HR staff may fetch anyone's.
func (s *Service) Download(ctx context.Context, requester *apperrors.SessionUser, id int64) (*Payslip, io.ReadCloser, error) {
	p, err := s.getByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if p.UserID != requester.ID && !auth.Role(requester.Role).CanManageHR() {
		return nil, nil, apperrors.ErrInsufficientRole
	}

	rc, err := s.store.Open(p.StoredName)
	if err != nil {
		s.logger.Error("payslip download: file open failed", "stored_name", p.StoredName, "error", err)
		return nil, nil, apperrors.NewDependencyError("Could not open the payslip file", apperrors.ErrCodeStoreFailed, err)
	}
	return p, rc, nil
}

func (s *Service) ListForUser(ctx context.Context, requester *apperrors.SessionUser, userID int64) ([]*Payslip, error) {
	if userID != requester.ID && !auth.Role(requester.Role).CanManageHR() {
		return nil, apperrors.ErrInsufficientRole
	}
	ps, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, s.storeFailure("list-payslips failed", err)
	}
	return ps, nil
}

func (s *Service) Delete(ctx context.Context, requester *apperrors.SessionUser, id int64) error {
	if !auth.Role(requester.Role).CanManageHR() {
		return apperrors.ErrInsufficientRole
	}

	p, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeFailure("delete-payslip failed", err)
	}
	if err := s.store.Remove(p.StoredName); err != nil {
		s.logger.Warn("delete-payslip: file removal failed", "stored_name", p.StoredName, "error", err)
	}
	return nil
}

func (s *Service) getByID(ctx context.Context, id int64) (*Payslip, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Payslip not found", apperrors.ErrCodePayslipNotFound)
		}
		return nil, s.storeFailure("payslip lookup failed", err)
	}
	return p, nil
}

func (s *Service) storeFailure(msg string, err error) *apperrors.AppError {
	s.logger.Error(msg, "error", err)
	return apperrors.NewDependencyError("A storage error occurred", apperrors.ErrCodeStoreFailed, err)
}
