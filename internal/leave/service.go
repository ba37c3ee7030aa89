package leave

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create files a request for the signed-in user. A range that overlaps any
// of the user's pending or approved requests is a conflict.
func (s *Service) Create(ctx context.Context, userID int64, dto CreateLeaveDTO) (*LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	overlapping, err := s.repo.CountOverlapping(ctx, userID, dto.StartDate, dto.EndDate, 0)
	if err != nil {
		return nil, s.storeFailure("create-leave: overlap check failed", err)
	}
	if overlapping > 0 {
		return nil, apperrors.NewConflictError("The requested dates overlap an existing leave request", apperrors.ErrCodeLeaveOverlap)
	}

	lr := &LeaveRequest{
		UserID:    userID,
		Type:      dto.Type,
		StartDate: dto.StartDate,
		EndDate:   dto.EndDate,
		Reason:    dto.Reason,
		Status:    StatusPending,
	}
	if err := s.repo.Create(ctx, lr); err != nil {
		return nil, s.storeFailure("create-leave failed", err)
	}
	return lr, nil
}

// Cancel is owner-only and allowed while the request is still pending.
func (s *Service) Cancel(ctx context.Context, requester *apperrors.SessionUser, id int64) (*LeaveRequest, error) {
	lr, err := s.getForReview(ctx, id)
	if err != nil {
		return nil, err
	}

	if lr.UserID != requester.ID {
		return nil, apperrors.ErrInsufficientRole
	}
	if lr.Status != StatusPending {
		return nil, apperrors.NewConflictError("Only pending requests can be cancelled", apperrors.ErrCodeLeaveNotPending)
	}

	lr.Status = StatusCancelled
	if err := s.repo.Update(ctx, lr); err != nil {
		return nil, s.storeFailure("cancel-leave failed", err)
	}
	return lr, nil
}

func (s *Service) Approve(ctx context.Context, reviewer *apperrors.SessionUser, id int64) (*LeaveRequest, error) {
	return s.review(ctx, reviewer, id, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, reviewer *apperrors.SessionUser, id int64) (*LeaveRequest, error) {
	return s.review(ctx, reviewer, id, StatusRejected)
}

func (s *Service) review(ctx context.Context, reviewer *apperrors.SessionUser, id int64, status string) (*LeaveRequest, error) {
	if !auth.Role(reviewer.Role).CanManageHR() {
		return nil, apperrors.ErrInsufficientRole
	}

	lr, err := s.getForReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if lr.Status != StatusPending {
		return nil, apperrors.NewConflictError("Only pending requests can be reviewed", apperrors.ErrCodeLeaveNotPending)
	}

	now := s.now()
	lr.Status = status
	lr.ReviewedBy = &reviewer.ID
	lr.ReviewedAt = &now
	if err := s.repo.Update(ctx, lr); err != nil {
		return nil, s.storeFailure("review-leave failed", err)
	}
	return lr, nil
}

func (s *Service) getForReview(ctx context.Context, id int64) (*LeaveRequest, error) {
	lr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Leave request not found", apperrors.ErrCodeLeaveNotFound)
		}
		return nil, s.storeFailure("leave lookup failed", err)
	}
	return lr, nil
}

func (s *Service) ListOwn(ctx context.Context, userID int64) ([]*LeaveRequest, error) {
	lrs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, s.storeFailure("list-own-leaves failed", err)
	}
	return lrs, nil
}

// ListByStatus is the HR review queue; an empty status lists everything.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]*LeaveRequest, error) {
	lrs, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, s.storeFailure("list-leaves failed", err)
	}
	return lrs, nil
}

func (s *Service) storeFailure(msg string, err error) *apperrors.AppError {
	s.logger.Error(msg, "error", err)
	return apperrors.NewDependencyError("A storage error occurred", apperrors.ErrCodeStoreFailed, err)
}
