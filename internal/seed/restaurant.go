package seed

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
)

// RestaurantSource provides the restaurant's details.
type RestaurantSource interface {
	FetchRestaurant(ctx context.Context) (domain.Restaurant, error)
}

// RestaurantFunc adapts a function to RestaurantSource.
type RestaurantFunc func(ctx context.Context) (domain.Restaurant, error)

// FetchRestaurant calls f.
func (f RestaurantFunc) FetchRestaurant(ctx context.Context) (domain.Restaurant, error) {
	return f(ctx)
}

// FetchRestaurant reads the restaurant from src within timeout. The boolean
// is false when the details could not be loaded; the page then has no
// details to show, which is not fatal.
func FetchRestaurant(ctx context.Context, src RestaurantSource, timeout time.Duration, logger *zap.Logger) (domain.Restaurant, bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if src == nil {
		return domain.Restaurant{}, false
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	restaurant, err := src.FetchRestaurant(ctx)
	switch {
	case errors.Is(err, ErrUnavailable):
		logger.Info("seed: restaurant details unavailable")
		return domain.Restaurant{}, false
	case err != nil:
		logger.Warn("seed: restaurant fetch failed", zap.Error(err))
		return domain.Restaurant{}, false
	case restaurant.IsZero():
		logger.Info("seed: restaurant details empty")
		return domain.Restaurant{}, false
	}

	logger.Info("seed: loaded restaurant", zap.String("name", restaurant.Name))
	return restaurant, true
}
