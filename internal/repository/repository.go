package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicolas-cahorel/P3-Mission/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Reviews     *ReviewsRepository
	Restaurants *RestaurantsRepository
}

// New constructs a Repository backed by the provided database.
func New(db *store.DB) *Repository {
	return NewWithPool(db.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Reviews:     &ReviewsRepository{pool: pool},
		Restaurants: &RestaurantsRepository{pool: pool},
	}
}

// SeedSource returns the review seed source for one restaurant.
func (r *Repository) SeedSource(restaurantID string) RestaurantReviews {
	return RestaurantReviews{Repo: r.Reviews, RestaurantID: restaurantID}
}

// RestaurantSource returns the details seed source for one restaurant.
func (r *Repository) RestaurantSource(restaurantID string) RestaurantDetails {
	return RestaurantDetails{Repo: r.Restaurants, RestaurantID: restaurantID}
}
