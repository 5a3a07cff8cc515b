package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
	"github.com/nicolas-cahorel/P3-Mission/internal/seed"
)

// RestaurantsRepository reads and writes restaurant details.
type RestaurantsRepository struct {
	pool *pgxpool.Pool
}

// Upsert stores the details of restaurantID, replacing earlier ones.
func (r *RestaurantsRepository) Upsert(ctx context.Context, restaurantID string, restaurant domain.Restaurant) error {
	query, args, err := psql.Insert("restaurants").
		Columns("id", "name", "type", "hours", "address", "website", "phone_number", "dine_in", "take_away").
		Values(restaurantID, restaurant.Name, restaurant.Type, restaurant.Hours, restaurant.Address,
			restaurant.Website, restaurant.PhoneNumber, restaurant.DineIn, restaurant.TakeAway).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			hours = EXCLUDED.hours,
			address = EXCLUDED.address,
			website = EXCLUDED.website,
			phone_number = EXCLUDED.phone_number,
			dine_in = EXCLUDED.dine_in,
			take_away = EXCLUDED.take_away,
			updated_at = now()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert restaurant: %w", err)
	}
	return nil
}

// Get returns the details of restaurantID or ErrNotFound.
func (r *RestaurantsRepository) Get(ctx context.Context, restaurantID string) (domain.Restaurant, error) {
	query, args, err := psql.Select("name", "type", "hours", "address", "website", "phone_number", "dine_in", "take_away").
		From("restaurants").
		Where(sq.Eq{"id": restaurantID}).
		ToSql()
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("build select: %w", err)
	}

	var restaurant domain.Restaurant
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&restaurant.Name,
		&restaurant.Type,
		&restaurant.Hours,
		&restaurant.Address,
		&restaurant.Website,
		&restaurant.PhoneNumber,
		&restaurant.DineIn,
		&restaurant.TakeAway,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Restaurant{}, ErrNotFound
	}
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	return restaurant, nil
}

// RestaurantDetails exposes one restaurant row as a seed source.
type RestaurantDetails struct {
	Repo         *RestaurantsRepository
	RestaurantID string
}

// FetchRestaurant reports a missing row as both ErrNotFound and
// seed.ErrUnavailable.
func (s RestaurantDetails) FetchRestaurant(ctx context.Context) (domain.Restaurant, error) {
	restaurant, err := s.Repo.Get(ctx, s.RestaurantID)
	if errors.Is(err, ErrNotFound) {
		return domain.Restaurant{}, fmt.Errorf("%w: %w", seed.ErrUnavailable, err)
	}
	return restaurant, err
}
