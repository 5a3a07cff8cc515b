package review

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
)

func reviewsRated(ratings ...int) []domain.Review {
	out := make([]domain.Review, 0, len(ratings))
	for i, r := range ratings {
		out = append(out, domain.Review{Author: "author", Content: string(rune('a' + i%26)), Rating: r})
	}
	return out
}

func TestAggregate_SeedScenario(t *testing.T) {
	stats := Aggregate(seedReviews())

	assert.Equal(t, 5, stats.TotalCount)
	assert.Equal(t, [5]int{0, 1, 0, 2, 2}, stats.Counts)
	assert.Equal(t, [5]int{0, 20, 0, 40, 40}, stats.Percent)
	// (2*20 + 4*40 + 5*40) / 100
	assert.InDelta(t, 4.0, stats.Average, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	for _, reviews := range [][]domain.Review{nil, {}} {
		stats := Aggregate(reviews)
		assert.Equal(t, domain.RatingStats{}, stats)
	}
}

func TestAggregate_Rounding(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		percent [5]int
		average float64
	}{
		{"single five", []int{5}, [5]int{0, 0, 0, 0, 100}, 5.0},
		{"thirds round down and up", []int{1, 2, 2}, [5]int{33, 67, 0, 0, 0}, 1.7},
		{"half percent rounds up", []int{4, 5, 5, 5, 5, 5, 5, 5}, [5]int{0, 0, 0, 13, 88}, 4.9},
		{"two stage rounding", []int{1, 2, 3, 4, 5, 5, 5, 5}, [5]int{13, 13, 13, 13, 50}, 3.8},
		{"even split", []int{1, 5}, [5]int{50, 0, 0, 0, 50}, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Aggregate(reviewsRated(tt.ratings...))
			assert.Equal(t, tt.percent, stats.Percent)
			assert.InDelta(t, tt.average, stats.Average, 1e-9)
		})
	}
}

func TestAggregate_IgnoresOutOfRangeInHistogram(t *testing.T) {
	stats := Aggregate(reviewsRated(0, 5, 9))

	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, [5]int{0, 0, 0, 0, 1}, stats.Counts)
	assert.Equal(t, [5]int{0, 0, 0, 0, 33}, stats.Percent)
	assert.InDelta(t, 1.7, stats.Average, 1e-9)
}

func TestAggregate_Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for iter := 0; iter < 500; iter++ {
		n := rnd.Intn(40)
		ratings := make([]int, n)
		inRange := 0
		for i := range ratings {
			ratings[i] = rnd.Intn(9) - 1
			if ratings[i] >= MinRating && ratings[i] <= MaxRating {
				inRange++
			}
		}

		stats := Aggregate(reviewsRated(ratings...))

		sum := 0
		for _, c := range stats.Counts {
			sum += c
		}
		if sum != inRange {
			t.Fatalf("ratings %v: histogram sums to %d, want %d", ratings, sum, inRange)
		}
		if stats.TotalCount != n {
			t.Fatalf("ratings %v: total = %d, want %d", ratings, stats.TotalCount, n)
		}
		if stats.Average < 0 || stats.Average > 5 {
			t.Fatalf("ratings %v: average %v out of bounds", ratings, stats.Average)
		}
	}
}

func BenchmarkAggregate(b *testing.B) {
	reviews := reviewsRated(5, 4, 5, 2, 4, 1, 3, 3, 5, 4)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Aggregate(reviews)
	}
}
