package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jejak-app/jejak/api/internal/metrics"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

type lifecycleService struct {
	repo    ReportRepository
	storage PhotoStorage
	logger  *zap.Logger
	now     func() time.Time
}

// NewLifecycleService creates the status lifecycle service.
func NewLifecycleService(repo ReportRepository, storage PhotoStorage, logger *zap.Logger) LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &lifecycleService{
		repo:    repo,
		storage: storage,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetStatus validates the requested status before touching the repository. The returned report
// is the one the repository confirmed; concurrent edits are last-write-wins.
func (s *lifecycleService) SetStatus(ctx context.Context, id, status, responseText string, actor Actor) (*reportdomain.Report, error) {
	next, err := reportdomain.ParseStatus(status)
	if err != nil {
		metrics.StatusUpdates.WithLabelValues("invalid", "rejected").Inc()
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		metrics.StatusUpdates.WithLabelValues(next.String(), "error").Inc()
		return nil, lifecycleError(err)
	}
	change, err := reportdomain.PlanStatusChange(*current, next, responseText, actor.Name, s.now())
	if err != nil {
		metrics.StatusUpdates.WithLabelValues(next.String(), "rejected").Inc()
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, change)
	if err != nil {
		metrics.StatusUpdates.WithLabelValues(next.String(), "error").Inc()
		s.logger.Error("report status update failed", zap.String("id", id), zap.String("status", next.String()), zap.Error(err))
		return nil, lifecycleError(err)
	}

	metrics.StatusUpdates.WithLabelValues(next.String(), "ok").Inc()
	s.logger.Info("report status updated",
		zap.String("id", id),
		zap.String("from", current.Status.String()),
		zap.String("to", next.String()),
		zap.String("admin", actor.ID),
	)
	return updated, nil
}

// Delete removes the record first and then releases its photo. A failed release is logged; the
// orphan sweeper removes the object later.
func (s *lifecycleService) Delete(ctx context.Context, id string) error {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lifecycleError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lifecycleError(err)
	}
	if report.PhotoPath != "" {
		if err := s.storage.Delete(ctx, report.PhotoPath); err != nil {
			s.logger.Warn("photo release failed after report delete", zap.String("id", id), zap.String("path", report.PhotoPath), zap.Error(err))
		}
	}
	s.logger.Info("report deleted", zap.String("id", id))
	return nil
}

func lifecycleError(err error) error {
	if errors.Is(err, reportdomain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", reportdomain.ErrLifecycleUpdate, err)
}
