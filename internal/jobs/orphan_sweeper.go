// Package jobs runs periodic maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jejak-app/jejak/api/internal/infrastructure/storage"
	"github.com/jejak-app/jejak/api/internal/metrics"
)

const (
	// DefaultSweepSchedule runs the sweep at the top of every hour.
	DefaultSweepSchedule = "@hourly"
	// DefaultGracePeriod leaves fresh uploads alone while their submission may still be in flight.
	DefaultGracePeriod = time.Hour

	lookupBatchSize = 200
)

// PhotoLister lists and removes stored photos.
type PhotoLister interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Delete(ctx context.Context, path string) error
}

// PhotoReferences reports which photo paths belong to a report.
type PhotoReferences interface {
	ReferencedPhotos(ctx context.Context, paths []string) (map[string]bool, error)
}

// SweeperConfig tunes the orphan sweep.
type SweeperConfig struct {
	Schedule    string
	GracePeriod time.Duration
	Prefix      string
	// Location interprets the schedule; nil means UTC.
	Location *time.Location
}

// OrphanSweeper removes uploaded photos that no report references, such as photos whose
// submission failed after upload and whose rollback also failed.
type OrphanSweeper struct {
	photos PhotoLister
	refs   PhotoReferences
	cfg    SweeperConfig
	logger *zap.Logger
	now    func() time.Time
	cron   *cron.Cron
}

// NewOrphanSweeper validates the schedule and returns a sweeper that is not yet started.
func NewOrphanSweeper(photos PhotoLister, refs PhotoReferences, cfg SweeperConfig, logger *zap.Logger) (*OrphanSweeper, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSweepSchedule
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", cfg.Schedule, err)
	}

	cl := cronLogger{logger.Sugar()}
	s := &OrphanSweeper{
		photos: photos,
		refs:   refs,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
	if _, err := s.cron.AddFunc(cfg.Schedule, s.run); err != nil {
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}
	return s, nil
}

// Start begins running the sweep on its schedule.
func (s *OrphanSweeper) Start() {
	s.cron.Start()
	s.logger.Info("orphan photo sweeper started", zap.String("schedule", s.cfg.Schedule), zap.Stringer("location", s.cfg.Location), zap.Duration("grace", s.cfg.GracePeriod))
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *OrphanSweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *OrphanSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("orphan photo sweep failed", zap.Error(err))
	}
}

// Sweep removes unreferenced photos older than the grace period and returns how many it removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	objects, err := s.photos.List(ctx, s.cfg.Prefix)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.cfg.GracePeriod)
	candidates := make([]string, 0, len(objects))
	for _, obj := range objects {
		if obj.LastModified.Before(cutoff) {
			candidates = append(candidates, obj.Path)
		}
	}

	removed := 0
	for start := 0; start < len(candidates); start += lookupBatchSize {
		end := min(start+lookupBatchSize, len(candidates))
		batch := candidates[start:end]
		referenced, err := s.refs.ReferencedPhotos(ctx, batch)
		if err != nil {
			return removed, fmt.Errorf("lookup photo references: %w", err)
		}
		for _, path := range batch {
			if referenced[path] {
				continue
			}
			if err := s.photos.Delete(ctx, path); err != nil {
				s.logger.Warn("orphan photo removal failed", zap.String("path", path), zap.Error(err))
				continue
			}
			removed++
			metrics.OrphanPhotosRemoved.Inc()
			s.logger.Info("orphan photo removed", zap.String("path", path))
		}
	}
	return removed, nil
}

// cronLogger routes cron's logging to zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
