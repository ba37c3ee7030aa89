package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/hr-management/internal"
)

// Window is the local-time interval during which a check-in counts as on
// time. Minutes are measured from midnight in the configured zone.
type Window struct {
	OpensMinutes  int
	ClosesMinutes int
	RejectOutside bool
	Location      *time.Location
}

// NewWindow parses "HH:MM" bounds. A zero tzOffsetMinutes means UTC.
func NewWindow(opens, closes string, rejectOutside bool, tzOffsetMinutes int) (Window, error) {
	w := Window{
		RejectOutside: rejectOutside,
		Location:      time.FixedZone("attendance", tzOffsetMinutes*60),
	}
	var err error
	if w.OpensMinutes, err = parseClock(opens); err != nil {
		return Window{}, err
	}
	if w.ClosesMinutes, err = parseClock(closes); err != nil {
		return Window{}, err
	}
	return w, nil
}

func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains reports whether t falls inside the window, closing bound inclusive.
func (w Window) Contains(t time.Time) bool {
	local := t.In(w.Location)
	m := local.Hour()*60 + local.Minute()
	return m >= w.OpensMinutes && m <= w.ClosesMinutes
}

// DayOf truncates t to its calendar day in the window's zone.
func (w Window) DayOf(t time.Time) time.Time {
	local := t.In(w.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

type Service struct {
	repo    Repository
	reports ReportRepository
	window  Window
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, reports ReportRepository, window Window, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		reports: reports,
		window:  window,
		logger:  logger,
		now:     time.Now,
	}
}

// CheckIn opens today's attendance record for the user. A second check-in on
// the same day is a conflict. Check-ins after the window close are either
// rejected or recorded as late, depending on configuration.
func (s *Service) CheckIn(ctx context.Context, userID int64, dto CheckDTO) (*Attendance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	day := s.window.DayOf(now)

	if _, err := s.repo.GetForDay(ctx, userID, day); err == nil {
		return nil, apperrors.NewConflictError("Already checked in today", apperrors.ErrCodeAlreadyCheckedIn)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, s.storeFailure("check-in: day lookup failed", err)
	}

	status := StatusOnTime
	if !s.window.Contains(now) {
		if s.window.RejectOutside {
			return nil, apperrors.NewValidationError("Check-in is outside the allowed window", apperrors.ErrCodeOutsideWindow)
		}
		status = StatusLate
	}

	a := &Attendance{
		UserID:     userID,
		WorkDate:   day,
		CheckInAt:  now,
		CheckInLat: dto.Latitude,
		CheckInLng: dto.Longitude,
		Status:     status,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, s.storeFailure("check-in: create failed", err)
	}
	return a, nil
}

// CheckOut closes today's open record. Checking out without an open record
// is a validation error.
func (s *Service) CheckOut(ctx context.Context, userID int64, dto CheckDTO) (*Attendance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	day := s.window.DayOf(now)

	a, err := s.repo.GetOpenForDay(ctx, userID, day)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewValidationError("No open attendance record to check out of", apperrors.ErrCodeNoOpenAttendance)
		}
		return nil, s.storeFailure("check-out: lookup failed", err)
	}

	a.CheckOutAt = &now
	a.CheckOutLat = &dto.Latitude
	a.CheckOutLng = &dto.Longitude
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, s.storeFailure("check-out: update failed", err)
	}
	return a, nil
}

// History returns the user's own records for the given range; a zero range
// defaults to the last 31 days.
func (s *Service) History(ctx context.Context, userID int64, from, to time.Time) ([]*Attendance, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -31)
	}
	as, err := s.repo.ListForUser(ctx, userID, from, to)
	if err != nil {
		return nil, s.storeFailure("attendance history failed", err)
	}
	return as, nil
}

func (s *Service) DailyOverview(ctx context.Context, day time.Time) ([]*Attendance, error) {
	if day.IsZero() {
		day = s.window.DayOf(s.now())
	}
	as, err := s.repo.ListForDay(ctx, day)
	if err != nil {
		return nil, s.storeFailure("daily overview failed", err)
	}
	return as, nil
}

func (s *Service) MonthlyReport(ctx context.Context, year int, month time.Month) ([]*MonthlySummary, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.NewValidationError("month must be between 1 and 12", apperrors.ErrCodeValidationFailed)
	}
	rows, err := s.reports.MonthlySummary(ctx, year, month)
	if err != nil {
		return nil, s.storeFailure("monthly report failed", err)
	}
	return rows, nil
}

func (s *Service) storeFailure(msg string, err error) *apperrors.AppError {
	s.logger.Error(msg, "error", err)
	return apperrors.NewDependencyError("A storage error occurred", apperrors.ErrCodeStoreFailed, err)
}
