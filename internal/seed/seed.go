package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
)

// ErrUnavailable is returned by sources that have no reviews to offer.
var ErrUnavailable = errors.New("seed: unavailable")

// Source provides the reviews a store starts from.
type Source interface {
	FetchInitialReviews(ctx context.Context) ([]domain.Review, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]domain.Review, error)

// FetchInitialReviews calls f.
func (f SourceFunc) FetchInitialReviews(ctx context.Context) ([]domain.Review, error) {
	return f(ctx)
}

// Fetch reads the seed from src within timeout. Any failure, including
// ErrUnavailable, is logged and yields nil so the store starts empty.
func Fetch(ctx context.Context, src Source, timeout time.Duration, logger *zap.Logger) []domain.Review {
	if logger == nil {
		logger = zap.NewNop()
	}
	if src == nil {
		logger.Warn("seed: no source configured, starting empty")
		return nil
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now()
	reviews, err := src.FetchInitialReviews(ctx)
	switch {
	case errors.Is(err, ErrUnavailable):
		logger.Info("seed: source has no reviews, starting empty")
		return nil
	case err != nil:
		logger.Warn("seed: fetch failed, starting empty", zap.Error(err))
		return nil
	case reviews == nil:
		logger.Info("seed: source returned nothing, starting empty")
		return nil
	}

	logger.Info("seed: loaded reviews",
		zap.Int("reviews", len(reviews)),
		zap.Duration("took", time.Since(started)),
	)
	return reviews
}

// File reads a YAML document with a top-level "reviews" list and an
// optional "restaurant" block.
type File struct {
	Path string
}

// Document is the layout File reads.
type Document struct {
	Restaurant *domain.Restaurant `yaml:"restaurant,omitempty"`
	Reviews    []domain.Review    `yaml:"reviews"`
}

// FetchInitialReviews implements Source.
func (f File) FetchInitialReviews(ctx context.Context) ([]domain.Review, error) {
	doc, err := f.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Reviews == nil {
		return nil, fmt.Errorf("%w: %s has no reviews", ErrUnavailable, f.Path)
	}
	return doc.Reviews, nil
}

// FetchRestaurant implements RestaurantSource.
func (f File) FetchRestaurant(ctx context.Context) (domain.Restaurant, error) {
	doc, err := f.Load(ctx)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if doc.Restaurant == nil {
		return domain.Restaurant{}, fmt.Errorf("%w: %s has no restaurant", ErrUnavailable, f.Path)
	}
	return *doc.Restaurant, nil
}

// Load reads the whole document. A missing file is ErrUnavailable.
func (f File) Load(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s does not exist", ErrUnavailable, f.Path)
		}
		return Document{}, fmt.Errorf("read seed file: %w", err)
	}
	return DecodeYAML(raw)
}

// DecodeYAML parses a seed document.
func DecodeYAML(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("parse seed file: %w", err)
	}
	return doc, nil
}

// EncodeYAML renders doc in the format File reads.
func EncodeYAML(doc Document) ([]byte, error) {
	return yaml.Marshal(doc)
}
