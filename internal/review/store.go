package review

import (
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
)

// Snapshot is an immutable view of the review list at one version.
type Snapshot struct {
	reviews []domain.Review
	Version uint64
}

// Len returns the number of reviews in the snapshot.
func (s Snapshot) Len() int {
	return len(s.reviews)
}

// At returns the review at index i, newest first.
func (s Snapshot) At(i int) domain.Review {
	return s.reviews[i]
}

// Reviews returns a copy of the reviews, newest first. The result is never
// nil.
func (s Snapshot) Reviews() []domain.Review {
	out := make([]domain.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// Stats aggregates the snapshot.
func (s Snapshot) Stats() domain.RatingStats {
	return Aggregate(s.reviews)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher makes the store publish through pub instead of a private
// publisher.
func WithPublisher(pub *Publisher[Snapshot]) Option {
	return func(s *Store) {
		if pub != nil {
			s.pub = pub
		}
	}
}

// Store is the single source of truth for the restaurant's reviews.
//
// Admissions are serialised by mu; readers load the current snapshot without
// locking. Every accepted review yields a new snapshot that is swapped in and
// published while mu is held, so subscribers observe commit order.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	pub     *Publisher[Snapshot]
	logger  *zap.Logger
}

// NewStore seeds a store. A nil initial list means the seed was unavailable:
// nothing is published until the first read. A non-nil list, even empty, is
// published immediately. Value-equal duplicates in the seed are collapsed,
// keeping the first occurrence.
func NewStore(initial []domain.Review, opts ...Option) *Store {
	s := &Store{
		pub:    NewPublisher[Snapshot](),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if initial == nil {
		s.logger.Info("store: starting without seed")
		return s
	}

	seeded := dedupe(initial)
	if dropped := len(initial) - len(seeded); dropped > 0 {
		s.logger.Warn("store: dropped duplicate seed reviews", zap.Int("dropped", dropped))
	}
	s.publishLocked(seeded)
	s.logger.Info("store: seeded", zap.Int("reviews", len(seeded)))
	return s
}

// CurrentSnapshot returns the latest published snapshot, publishing an empty
// one first if nothing was ever published.
func (s *Store) CurrentSnapshot() Snapshot {
	if snap := s.current.Load(); snap != nil {
		return *snap
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap := s.current.Load(); snap != nil {
		return *snap
	}
	return s.publishLocked([]domain.Review{})
}

// TryAdmit runs the admission policy and, on acceptance, places candidate at
// the front of a new snapshot. Rejected candidates leave the store unchanged.
func (s *Store) TryAdmit(candidate domain.Review) AdmissionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []domain.Review
	if snap := s.current.Load(); snap != nil {
		current = snap.reviews
	}

	result := Admit(candidate, current)
	if !result.Accepted() {
		s.logger.Debug("store: review rejected",
			zap.Stringer("reason", result.Reason),
			zap.String("author", candidate.Author),
		)
		return result
	}

	next := make([]domain.Review, 0, len(current)+1)
	next = append(next, candidate)
	next = append(next, current...)
	snap := s.publishLocked(next)

	s.logger.Info("store: review admitted",
		zap.String("author", candidate.Author),
		zap.Int("rating", candidate.Rating),
		zap.Uint64("version", snap.Version),
	)
	return result
}

// Subscribe registers an observer of snapshot changes. The latest snapshot,
// if any, is delivered immediately.
func (s *Store) Subscribe() *Subscription[Snapshot] {
	return s.pub.Subscribe()
}

// Subscribers returns the number of live snapshot subscriptions.
func (s *Store) Subscribers() int {
	return s.pub.Subscribers()
}

// TotalCount returns the number of reviews in the current snapshot.
func (s *Store) TotalCount() int {
	return s.CurrentSnapshot().Len()
}

// HistogramPercent returns per-star percentages, index 0 being one star.
func (s *Store) HistogramPercent() [domain.StarBuckets]int {
	return s.Stats().Percent
}

// WeightedAverage returns the one-decimal average derived from the
// percentage histogram.
func (s *Store) WeightedAverage() float64 {
	return s.Stats().Average
}

// Stats aggregates the current snapshot.
func (s *Store) Stats() domain.RatingStats {
	return s.CurrentSnapshot().Stats()
}

// Close releases all subscriptions.
func (s *Store) Close() {
	s.pub.Close()
}

// publishLocked must be called with mu held (or before the store escapes
// its constructor). reviews must not be retained by the caller.
func (s *Store) publishLocked(reviews []domain.Review) Snapshot {
	var version uint64 = 1
	if prev := s.current.Load(); prev != nil {
		version = prev.Version + 1
	}
	snap := &Snapshot{reviews: reviews, Version: version}
	s.current.Store(snap)
	s.pub.Publish(*snap)
	return *snap
}

func dedupe(reviews []domain.Review) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}
