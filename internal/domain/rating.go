package domain

// StarBuckets is the number of histogram buckets, one per star.
const StarBuckets = 5

// RatingStats provides the derived statistics for a review snapshot.
type RatingStats struct {
	TotalCount int
	// Counts[i] holds the number of reviews rated i+1 stars.
	Counts [StarBuckets]int
	// Percent[i] is Counts[i] as a rounded percentage of TotalCount.
	Percent [StarBuckets]int
	Average float64
}
