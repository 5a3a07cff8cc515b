package restaurantapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
	"github.com/nicolas-cahorel/P3-Mission/internal/seed"
)

// ErrNotFound is returned when upstream does not know the restaurant.
var ErrNotFound = errors.New("restaurantapi: not found")

// Client defines the contract for querying the upstream restaurant API.
type Client interface {
	Reviews(ctx context.Context, restaurantID string) ([]domain.Review, error)
	Restaurant(ctx context.Context, restaurantID string) (domain.Restaurant, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient constructs a new HTTP-backed restaurant API client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse restaurant api url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse restaurant api url: %q is not absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Reviews retrieves the reviews upstream holds for a restaurant.
func (c *HTTPClient) Reviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	var payload apiResponse
	if err := c.get(ctx, restaurantID, "/restaurants/"+restaurantID+"/reviews", &payload); err != nil {
		return nil, err
	}
	return convertToReviews(payload), nil
}

// Restaurant retrieves the details upstream holds for a restaurant.
func (c *HTTPClient) Restaurant(ctx context.Context, restaurantID string) (domain.Restaurant, error) {
	var payload domain.Restaurant
	if err := c.get(ctx, restaurantID, "/restaurants/"+restaurantID, &payload); err != nil {
		return domain.Restaurant{}, err
	}
	return payload, nil
}

func (c *HTTPClient) get(ctx context.Context, restaurantID, path string, out any) error {
	rel := &url.URL{Path: c.baseURL.Path + path}
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode restaurant api response: %w", err)
		}
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		c.logger.Warn("restaurantapi: unexpected status",
			zap.Int("status", resp.StatusCode),
			zap.String("restaurant", restaurantID),
			zap.String("path", path),
		)
		return fmt.Errorf("restaurantapi: upstream returned %d", resp.StatusCode)
	}
}

// SeedSource binds the client to one restaurant.
func (c *HTTPClient) SeedSource(restaurantID string) seed.Source {
	return seed.SourceFunc(func(ctx context.Context) ([]domain.Review, error) {
		reviews, err := c.Reviews(ctx, restaurantID)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", seed.ErrUnavailable, err)
		}
		return reviews, err
	})
}

// RestaurantSource binds the client's details endpoint to one restaurant.
func (c *HTTPClient) RestaurantSource(restaurantID string) seed.RestaurantSource {
	return seed.RestaurantFunc(func(ctx context.Context) (domain.Restaurant, error) {
		restaurant, err := c.Restaurant(ctx, restaurantID)
		if errors.Is(err, ErrNotFound) {
			return domain.Restaurant{}, fmt.Errorf("%w: %w", seed.ErrUnavailable, err)
		}
		return restaurant, err
	})
}

type apiResponse struct {
	Reviews []reviewPayload `json:"reviews"`
}

type reviewPayload struct {
	Author    *string `json:"author"`
	AvatarURL *string `json:"avatarUrl"`
	Content   *string `json:"content"`
	Rating    *int    `json:"rating"`
}

// convertToReviews keeps upstream values as-is, including out-of-range
// ratings; missing fields become zero values. A payload without a reviews
// key yields nil.
func convertToReviews(payload apiResponse) []domain.Review {
	if payload.Reviews == nil {
		return nil
	}
	reviews := make([]domain.Review, 0, len(payload.Reviews))
	for _, p := range payload.Reviews {
		reviews = append(reviews, domain.Review{
			Author:    deref(p.Author),
			AvatarURL: deref(p.AvatarURL),
			Content:   deref(p.Content),
			Rating:    deref(p.Rating),
		})
	}
	return reviews
}

func deref[T any](ptr *T) T {
	var zero T
	if ptr == nil {
		return zero
	}
	return *ptr
}
