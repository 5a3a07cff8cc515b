package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
	"github.com/nicolas-cahorel/P3-Mission/internal/seed"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var reviewColumns = []string{"author", "avatar_url", "content", "rating"}

// ReviewsRepository reads and writes a restaurant's seed reviews.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

// InsertBatch stores reviews in a single transaction. The first review of
// the slice is stored as the newest, matching the order ListByRestaurant
// returns.
func (r *ReviewsRepository) InsertBatch(ctx context.Context, restaurantID string, reviews []domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	base := time.Now().UTC()
	batch := &pgx.Batch{}
	for i, review := range reviews {
		createdAt := base.Add(-time.Duration(i) * time.Millisecond)
		query, args, err := psql.Insert("reviews").
			Columns("restaurant_id", "author", "avatar_url", "content", "rating", "created_at").
			Values(restaurantID, review.Author, review.AvatarURL, review.Content, review.Rating, createdAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		batch.Queue(query, args...)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListByRestaurant returns a restaurant's reviews, newest first.
func (r *ReviewsRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	query, args, err := psql.Select(reviewColumns...).
		From("reviews").
		Where(sq.Eq{"restaurant_id": restaurantID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns how many seed reviews a restaurant has.
func (r *ReviewsRepository) Count(ctx context.Context, restaurantID string) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").From("reviews").Where(sq.Eq{"restaurant_id": restaurantID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.Author,
		&review.AvatarURL,
		&review.Content,
		&review.Rating,
	)
	if err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

// RestaurantReviews exposes one restaurant's rows as a seed source.
type RestaurantReviews struct {
	Repo         *ReviewsRepository
	RestaurantID string
}

// FetchInitialReviews reports a restaurant without rows as both ErrNotFound
// and seed.ErrUnavailable.
func (s RestaurantReviews) FetchInitialReviews(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.Repo.ListByRestaurant(ctx, s.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for %s: %w", s.RestaurantID, err)
	}
	if len(reviews) == 0 {
		return nil, fmt.Errorf("%w: %w", seed.ErrUnavailable, ErrNotFound)
	}
	return reviews, nil
}
