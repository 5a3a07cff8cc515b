package review

import "github.com/nicolas-cahorel/P3-Mission/internal/domain"

// Aggregate derives rating statistics from a list of reviews.
//
// Percentages are rounded half-up to whole numbers, and the average is then
// computed from those percentages and rounded half-up to one decimal. Ratings
// outside MinRating..MaxRating count towards TotalCount but no bucket.
func Aggregate(reviews []domain.Review) domain.RatingStats {
	stats := domain.RatingStats{TotalCount: len(reviews)}
	if stats.TotalCount == 0 {
		return stats
	}

	for _, r := range reviews {
		if r.Rating < MinRating || r.Rating > MaxRating {
			continue
		}
		stats.Counts[r.Rating-MinRating]++
	}

	weighted := 0
	for i, count := range stats.Counts {
		stats.Percent[i] = roundedPercent(count, stats.TotalCount)
		weighted += (i + MinRating) * stats.Percent[i]
	}

	stats.Average = roundedAverage(weighted)
	return stats
}

// roundedPercent returns round_half_up(count*100/total) without going
// through floating point.
func roundedPercent(count, total int) int {
	return (2*count*100 + total) / (2 * total)
}

// roundedAverage turns a sum of star*percent products into an average
// rounded half-up to one decimal.
func roundedAverage(weighted int) float64 {
	tenths := (weighted + 5) / 10
	avg := float64(tenths) / 10
	switch {
	case avg < 0:
		return 0
	case avg > MaxRating:
		return MaxRating
	}
	return avg
}
