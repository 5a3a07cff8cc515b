package review

import (
	"errors"
	"fmt"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
)

// Rating bounds enforced at admission.
const (
	MinRating = 1
	MaxRating = 5
)

// Reason tags the outcome of an admission attempt.
type Reason int

const (
	ReasonAccepted Reason = iota
	ReasonDuplicateReview
	ReasonEmptyComment
	ReasonRatingOutOfRange
)

func (r Reason) String() string {
	switch r {
	case ReasonAccepted:
		return "accepted"
	case ReasonDuplicateReview:
		return "duplicate_review"
	case ReasonEmptyComment:
		return "empty_comment"
	case ReasonRatingOutOfRange:
		return "rating_out_of_range"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Field names the candidate field a rejection is about.
func (r Reason) Field() string {
	switch r {
	case ReasonDuplicateReview:
		return "review"
	case ReasonEmptyComment:
		return "content"
	case ReasonRatingOutOfRange:
		return "rating"
	default:
		return ""
	}
}

// Sentinel errors mirroring the rejection reasons.
var (
	ErrDuplicateReview  = errors.New("review: duplicate review")
	ErrEmptyComment     = errors.New("review: empty comment")
	ErrRatingOutOfRange = errors.New("review: rating out of range")
)

// AdmissionResult is the outcome of evaluating a candidate review.
type AdmissionResult struct {
	Reason    Reason
	Candidate domain.Review
}

// Accepted reports whether the candidate was admitted.
func (r AdmissionResult) Accepted() bool {
	return r.Reason == ReasonAccepted
}

// Err returns nil for an accepted candidate and a *RejectionError otherwise.
func (r AdmissionResult) Err() error {
	if r.Accepted() {
		return nil
	}
	return &RejectionError{Reason: r.Reason, Candidate: r.Candidate}
}

// RejectionError carries a rejection reason and the offending candidate.
type RejectionError struct {
	Reason    Reason
	Candidate domain.Review
}

func (e *RejectionError) Error() string {
	switch e.Reason {
	case ReasonRatingOutOfRange:
		return fmt.Sprintf("%v: got %d, want %d..%d", e.Unwrap(), e.Candidate.Rating, MinRating, MaxRating)
	case ReasonDuplicateReview:
		return fmt.Sprintf("%v: author %q", e.Unwrap(), e.Candidate.Author)
	case ReasonEmptyComment:
		return ErrEmptyComment.Error()
	default:
		return fmt.Sprintf("review: rejected (%s)", e.Reason)
	}
}

func (e *RejectionError) Unwrap() error {
	switch e.Reason {
	case ReasonDuplicateReview:
		return ErrDuplicateReview
	case ReasonEmptyComment:
		return ErrEmptyComment
	case ReasonRatingOutOfRange:
		return ErrRatingOutOfRange
	default:
		return nil
	}
}

// Admit decides whether candidate may enter a store currently holding
// current. The first failing rule wins: duplicate, then empty content, then
// rating range.
func Admit(candidate domain.Review, current []domain.Review) AdmissionResult {
	result := AdmissionResult{Candidate: candidate}
	switch {
	case contains(current, candidate):
		result.Reason = ReasonDuplicateReview
	case candidate.Content == "":
		result.Reason = ReasonEmptyComment
	case candidate.Rating < MinRating || candidate.Rating > MaxRating:
		result.Reason = ReasonRatingOutOfRange
	default:
		result.Reason = ReasonAccepted
	}
	return result
}

func contains(reviews []domain.Review, candidate domain.Review) bool {
	for _, r := range reviews {
		if r == candidate {
			return true
		}
	}
	return false
}
