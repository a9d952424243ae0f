package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jejak-app/jejak/api/internal/metrics"
	"github.com/jejak-app/jejak/api/internal/report/domain"
)

// Mode selects the categorization strategy.
type Mode string

const (
	ModeHeuristic Mode = "heuristic"
	ModeRemote    Mode = "remote"
)

// ParseMode accepts "heuristic" or "remote"; an empty value means heuristic.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeHeuristic:
		return ModeHeuristic, nil
	case ModeRemote:
		return ModeRemote, nil
	}
	return "", fmt.Errorf("unknown classifier mode %q", value)
}

// Input is what the citizen typed and attached.
type Input struct {
	Title       string
	Description string
	Photo       []byte
}

// Result is the categorization outcome. Title and Priority are only filled by the remote
// classifier; Source names which step decided the category.
type Result struct {
	Category   domain.Category
	Title      string
	Priority   domain.Priority
	Moderation bool
	Source     string
}

// Categorizer runs the keyword rules with the image fallback, or the remote classifier when the
// mode is remote. Every failure is wrapped in domain.ErrClassification.
type Categorizer struct {
	mode   Mode
	image  ImageClassifier
	remote TextClassifier
	logger *zap.Logger
}

// NewCategorizer builds a Categorizer. image may be nil, in which case reports the keyword rules
// cannot place stay in Lainnya.
func NewCategorizer(mode Mode, image ImageClassifier, remote TextClassifier, logger *zap.Logger) (*Categorizer, error) {
	if mode == ModeRemote && remote == nil {
		return nil, fmt.Errorf("classifier mode %q needs a remote classifier", mode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Categorizer{mode: mode, image: image, remote: remote, logger: logger}, nil
}

// Mode returns the configured mode.
func (c *Categorizer) Mode() Mode {
	return c.mode
}

// Categorize classifies in.
func (c *Categorizer) Categorize(ctx context.Context, in Input) (Result, error) {
	if c.mode == ModeRemote {
		return c.categorizeRemote(ctx, in)
	}
	return c.categorizeLocal(ctx, in)
}

func (c *Categorizer) categorizeLocal(ctx context.Context, in Input) (Result, error) {
	category := TextCategory(in.Title, in.Description)
	if category != domain.CategoryOther || len(in.Photo) == 0 || c.image == nil {
		metrics.Classifications.WithLabelValues("text", "ok").Inc()
		return Result{Category: category, Source: "text"}, nil
	}

	label, err := c.image.TopLabel(ctx, in.Photo)
	if err != nil {
		metrics.Classifications.WithLabelValues("image", "error").Inc()
		return Result{}, fmt.Errorf("%w: %w", domain.ErrClassification, err)
	}
	metrics.Classifications.WithLabelValues("image", "ok").Inc()
	category = LabelCategory(label)
	c.logger.Debug("image classified", zap.String("label", label), zap.String("category", category.String()))
	return Result{Category: category, Source: "image"}, nil
}

func (c *Categorizer) categorizeRemote(ctx context.Context, in Input) (Result, error) {
	res, err := c.remote.Classify(ctx, in.Description)
	if err != nil {
		metrics.Classifications.WithLabelValues("remote", "error").Inc()
		return Result{}, fmt.Errorf("%w: %w", domain.ErrClassification, err)
	}
	metrics.Classifications.WithLabelValues("remote", "ok").Inc()
	return Result{
		Category:   res.Category,
		Title:      res.Title,
		Priority:   res.Priority,
		Moderation: res.Moderation,
		Source:     "remote",
	}, nil
}
