package application

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jejak-app/jejak/api/internal/classify"
	"github.com/jejak-app/jejak/api/internal/metrics"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

const (
	// PhotoPrefix is the storage folder for report photos.
	PhotoPrefix = "photos/"

	defaultMaxPhotoBytes = 10 << 20
	maxPhotoNameRunes    = 100
)

// SubmissionConfig tunes the intake pipeline.
type SubmissionConfig struct {
	// RequireReporterContact makes name and contact mandatory.
	RequireReporterContact bool
	MaxPhotoBytes          int64
}

type submissionService struct {
	repo        ReportRepository
	storage     PhotoStorage
	categorizer Categorizer
	validate    *validator.Validate
	cfg         SubmissionConfig
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

// NewSubmissionService wires the pipeline collaborators.
func NewSubmissionService(repo ReportRepository, storage PhotoStorage, categorizer Categorizer, cfg SubmissionConfig, logger *zap.Logger) SubmissionService {
	if cfg.MaxPhotoBytes <= 0 {
		cfg.MaxPhotoBytes = defaultMaxPhotoBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &submissionService{
		repo:        repo,
		storage:     storage,
		categorizer: categorizer,
		validate:    validator.New(),
		cfg:         cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// Submit validates the input, categorizes it, applies the moderation gate, uploads the photo and
// inserts the report, in that order. Nothing is uploaded or inserted for a rejected report, and a
// failed insert deletes the photo it uploaded.
func (s *submissionService) Submit(ctx context.Context, cmd SubmitReportCommand) (*reportdomain.Report, error) {
	start := time.Now()
	report, err := s.submit(ctx, cmd)
	metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	metrics.Submissions.WithLabelValues(submissionOutcome(err)).Inc()
	return report, err
}

func (s *submissionService) submit(ctx context.Context, cmd SubmitReportCommand) (*reportdomain.Report, error) {
	if err := s.validateCommand(cmd); err != nil {
		return nil, err
	}
	description, err := reportdomain.NewDescription(cmd.Description)
	if err != nil {
		return nil, err
	}
	location, err := reportdomain.NewLocation(cmd.Latitude, cmd.Longitude)
	if err != nil {
		return nil, err
	}
	contentType, ext, err := s.checkPhoto(cmd.Photo)
	if err != nil {
		return nil, err
	}

	result, err := s.categorizer.Categorize(ctx, classify.Input{
		Title:       cmd.Title,
		Description: description,
		Photo:       cmd.Photo,
	})
	if err != nil {
		if !errors.Is(err, reportdomain.ErrClassification) {
			err = fmt.Errorf("%w: %w", reportdomain.ErrClassification, err)
		}
		return nil, err
	}
	if result.Moderation {
		s.logger.Info("report rejected by moderation", zap.String("source", result.Source))
		return nil, reportdomain.ErrModerationRejected
	}

	titleSource := cmd.Title
	if strings.TrimSpace(result.Title) != "" {
		titleSource = result.Title
	}
	title, err := reportdomain.NewTitle(titleSource, description)
	if err != nil {
		return nil, err
	}

	photoPath := PhotoPrefix + s.newID() + "_" + sanitizePhotoName(cmd.PhotoName, ext)
	if err := s.storage.Upload(ctx, photoPath, cmd.Photo, contentType); err != nil {
		s.logger.Error("photo upload failed", zap.String("path", photoPath), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", reportdomain.ErrUpload, err)
	}

	now := s.now()
	report := &reportdomain.Report{
		Title:           title,
		Description:     description,
		Category:        result.Category,
		Priority:        result.Priority,
		Status:          reportdomain.InitialStatus,
		PhotoPath:       photoPath,
		Location:        location,
		Address:         strings.TrimSpace(cmd.Address),
		Moderation:      false,
		ReporterName:    strings.TrimSpace(cmd.ReporterName),
		ReporterContact: strings.TrimSpace(cmd.ReporterContact),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, report); err != nil {
		s.logger.Error("report insert failed, releasing photo", zap.String("path", photoPath), zap.Error(err))
		// the request context may already be done; the rollback still has to run
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		if delErr := s.storage.Delete(cleanupCtx, photoPath); delErr != nil {
			s.logger.Warn("photo rollback failed, leaving it to the orphan sweeper", zap.String("path", photoPath), zap.Error(delErr))
		}
		cancel()
		return nil, fmt.Errorf("%w: %w", reportdomain.ErrPersistence, err)
	}

	s.logger.Info("report submitted",
		zap.String("id", report.ID),
		zap.String("category", report.Category.String()),
		zap.String("source", result.Source),
	)
	return report, nil
}

func (s *submissionService) validateCommand(cmd SubmitReportCommand) error {
	if s.cfg.RequireReporterContact {
		if strings.TrimSpace(cmd.ReporterName) == "" {
			return reportdomain.NewValidationError("name", "Nama pelapor wajib diisi")
		}
		if strings.TrimSpace(cmd.ReporterContact) == "" {
			return reportdomain.NewValidationError("contact", "Kontak pelapor wajib diisi")
		}
	}
	if err := s.validate.Struct(cmd); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return translateValidation(verrs[0])
		}
		return reportdomain.NewValidationError("request", err.Error())
	}
	return nil
}

func translateValidation(fe validator.FieldError) error {
	switch fe.Field() {
	case "Description":
		return reportdomain.NewValidationError("description", "Isi deskripsi laporan terlebih dahulu!")
	case "ReporterContact":
		return reportdomain.NewValidationError("contact", "Kontak hanya boleh berisi angka (maksimal 20 digit)")
	case "Latitude":
		return reportdomain.NewValidationError("latitude", "latitude harus di antara -90 dan 90")
	case "Longitude":
		return reportdomain.NewValidationError("longitude", "longitude harus di antara -180 dan 180")
	}
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	return reportdomain.NewValidationError(field, fmt.Sprintf("melebihi batas %s karakter", fe.Param()))
}

// checkPhoto sniffs the content type and returns it with the canonical extension.
func (s *submissionService) checkPhoto(photo []byte) (string, string, error) {
	if len(photo) == 0 {
		return "", "", reportdomain.NewValidationError("photo", "Upload foto terlebih dahulu!")
	}
	if int64(len(photo)) > s.cfg.MaxPhotoBytes {
		return "", "", reportdomain.NewValidationError("photo", fmt.Sprintf("ukuran foto maksimal %d MB", s.cfg.MaxPhotoBytes>>20))
	}
	mt := mimetype.Detect(photo)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", reportdomain.NewValidationError("photo", "file harus berupa gambar")
	}
	return mt.String(), mt.Extension(), nil
}

// sanitizePhotoName keeps the base name with only portable characters.
func sanitizePhotoName(name, ext string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
		if b.Len() >= maxPhotoNameRunes {
			break
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "photo" + ext
	}
	if path.Ext(cleaned) == "" {
		cleaned += ext
	}
	return cleaned
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, reportdomain.ErrValidation):
		return "invalid"
	case errors.Is(err, reportdomain.ErrModerationRejected):
		return "moderated"
	case errors.Is(err, reportdomain.ErrClassification):
		return "classification_error"
	case errors.Is(err, reportdomain.ErrUpload):
		return "upload_error"
	case errors.Is(err, reportdomain.ErrPersistence):
		return "persistence_error"
	}
	return "error"
}
