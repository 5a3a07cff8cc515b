package review

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	st := NewStore(seedReviews(), WithLogger(zaptest.NewLogger(t)))
	t.Cleanup(st.Close)
	return st
}

func TestStore_SeedStatistics(t *testing.T) {
	st := newSeededStore(t)

	assert.Equal(t, 5, st.TotalCount())
	assert.Equal(t, [5]int{0, 20, 0, 40, 40}, st.HistogramPercent())
	assert.InDelta(t, 4.0, st.WeightedAverage(), 1e-9)

	snap := st.CurrentSnapshot()
	assert.Equal(t, uint64(1), snap.Version)
	if diff := cmp.Diff(seedReviews(), snap.Reviews()); diff != "" {
		t.Fatalf("seed snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_RejectionsLeaveSnapshotUnchanged(t *testing.T) {
	tests := []struct {
		name      string
		candidate domain.Review
		want      Reason
	}{
		{"duplicate", seedReviews()[3], ReasonDuplicateReview},
		{"empty comment", candidate("", 3), ReasonEmptyComment},
		{"rating zero", candidate("ok", 0), ReasonRatingOutOfRange},
		{"rating six", candidate("ok", 6), ReasonRatingOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newSeededStore(t)
			before := st.CurrentSnapshot()

			got := st.TryAdmit(tt.candidate)

			assert.Equal(t, tt.want, got.Reason)
			after := st.CurrentSnapshot()
			assert.Equal(t, before.Version, after.Version)
			if diff := cmp.Diff(before.Reviews(), after.Reviews()); diff != "" {
				t.Fatalf("snapshot changed after rejection (-before +after):\n%s", diff)
			}
		})
	}
}

func TestStore_AcceptedReviewGoesFirst(t *testing.T) {
	st := newSeededStore(t)
	c := candidate("ok", 1)

	got := st.TryAdmit(c)

	require.True(t, got.Accepted())
	snap := st.CurrentSnapshot()
	assert.Equal(t, 6, snap.Len())
	assert.Equal(t, c, snap.At(0))
	assert.Equal(t, uint64(2), snap.Version)
	if diff := cmp.Diff(seedReviews(), snap.Reviews()[1:]); diff != "" {
		t.Fatalf("existing reviews moved (-want +got):\n%s", diff)
	}

	again := st.TryAdmit(c)
	assert.Equal(t, ReasonDuplicateReview, again.Reason)
	assert.Equal(t, 6, st.TotalCount())
}

func TestStore_UnavailableSeed(t *testing.T) {
	st := NewStore(nil)
	defer st.Close()

	sub := st.Subscribe()
	defer sub.Unsubscribe()
	select {
	case <-sub.C():
		t.Fatalf("nothing should be published before the first read")
	default:
	}

	snap := st.CurrentSnapshot()
	assert.Equal(t, 0, snap.Len())
	assert.NotNil(t, snap.Reviews())
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, 0, st.TotalCount())
	assert.Equal(t, [5]int{}, st.HistogramPercent())
	assert.Equal(t, 0.0, st.WeightedAverage())

	published := <-sub.C()
	assert.Equal(t, uint64(1), published.Version)

	// Reading again must not publish a second time.
	_ = st.CurrentSnapshot()
	select {
	case extra := <-sub.C():
		t.Fatalf("unexpected second publish, version %d", extra.Version)
	default:
	}
}

func TestStore_EmptySeedIsPublished(t *testing.T) {
	st := NewStore([]domain.Review{})
	defer st.Close()

	sub := st.Subscribe()
	defer sub.Unsubscribe()
	snap := <-sub.C()
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, uint64(1), snap.Version)
}

func TestStore_AdmitIntoUnavailableSeed(t *testing.T) {
	st := NewStore(nil)
	defer st.Close()

	c := candidate("ok", 4)
	require.True(t, st.TryAdmit(c).Accepted())

	snap := st.CurrentSnapshot()
	assert.Equal(t, []domain.Review{c}, snap.Reviews())
	assert.Equal(t, uint64(1), snap.Version)
}

func TestStore_SeedDuplicatesCollapsed(t *testing.T) {
	seed := seedReviews()
	seed = append(seed, seed[0], seed[2])

	st := NewStore(seed)
	defer st.Close()

	assert.Equal(t, 5, st.TotalCount())
	if diff := cmp.Diff(seedReviews(), st.CurrentSnapshot().Reviews()); diff != "" {
		t.Fatalf("dedupe changed order (-want +got):\n%s", diff)
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	st := newSeededStore(t)

	old := st.CurrentSnapshot()
	copied := old.Reviews()
	copied[0].Content = "tampered"

	assert.NotEqual(t, "tampered", st.CurrentSnapshot().At(0).Content)

	require.True(t, st.TryAdmit(candidate("fresh", 5)).Accepted())
	assert.Equal(t, 5, old.Len(), "earlier snapshots never change")
	assert.Equal(t, 6, st.CurrentSnapshot().Len())
}

func TestStore_PublishesOncePerAcceptance(t *testing.T) {
	st := newSeededStore(t)
	sub := st.Subscribe()
	defer sub.Unsubscribe()

	initial := <-sub.C()
	assert.Equal(t, 5, initial.Len())

	st.TryAdmit(candidate("", 3))
	select {
	case snap := <-sub.C():
		t.Fatalf("rejection published version %d", snap.Version)
	default:
	}

	c := candidate("ok", 2)
	st.TryAdmit(c)
	snap := <-sub.C()
	assert.Equal(t, 6, snap.Len())
	assert.Equal(t, c, snap.At(0))
	select {
	case extra := <-sub.C():
		t.Fatalf("second publish for one acceptance, version %d", extra.Version)
	default:
	}
}

func TestStore_Subscribers(t *testing.T) {
	st := newSeededStore(t)
	assert.Equal(t, 0, st.Subscribers())

	first := st.Subscribe()
	second := st.Subscribe()
	assert.Equal(t, 2, st.Subscribers())

	first.Unsubscribe()
	assert.Equal(t, 1, st.Subscribers())
	second.Unsubscribe()
	assert.Equal(t, 0, st.Subscribers())
}

func TestStore_RandomAdmissionsKeepInvariants(t *testing.T) {
	st := newSeededStore(t)
	rnd := rand.New(rand.NewSource(42))
	authors := []string{"Ranjit Singh", "Emilie Hood", "Guest"}
	contents := []string{"", "ok", "Très bon restaurant Indien ! Je recommande."}

	for i := 0; i < 400; i++ {
		c := domain.Review{
			Author:  authors[rnd.Intn(len(authors))],
			Content: contents[rnd.Intn(len(contents))],
			Rating:  rnd.Intn(8) - 1,
		}
		result := st.TryAdmit(c)
		snap := st.CurrentSnapshot()

		if result.Accepted() && snap.At(0) != c {
			t.Fatalf("accepted %+v but front is %+v", c, snap.At(0))
		}
		if c.Rating < MinRating || c.Rating > MaxRating {
			if result.Accepted() {
				t.Fatalf("accepted out-of-range rating %d", c.Rating)
			}
		}

		seen := make(map[domain.Review]struct{}, snap.Len())
		for _, r := range snap.Reviews() {
			if _, dup := seen[r]; dup {
				t.Fatalf("duplicate review in snapshot: %+v", r)
			}
			seen[r] = struct{}{}
		}
	}
}

func TestStore_ConcurrentAdmissions(t *testing.T) {
	st := newSeededStore(t)
	sub := st.Subscribe()
	defer sub.Unsubscribe()

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := candidate(fmt.Sprintf("comment %d", i), i%5+1)
			if !st.TryAdmit(c).Accepted() {
				t.Errorf("candidate %d rejected", i)
			}
			// Every writer also races a duplicate of itself.
			if st.TryAdmit(c).Accepted() {
				t.Errorf("duplicate of candidate %d accepted", i)
			}
			_ = st.Stats()
		}(i)
	}
	wg.Wait()

	snap := st.CurrentSnapshot()
	assert.Equal(t, 5+writers, snap.Len())
	assert.Equal(t, uint64(1+writers), snap.Version)

	last := <-sub.C()
	assert.Equal(t, snap.Version, last.Version)
}

func BenchmarkStoreTryAdmit(b *testing.B) {
	st := NewStore(seedReviews())
	defer st.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		st.TryAdmit(candidate(fmt.Sprintf("bench %d", i), i%5+1))
	}
}
