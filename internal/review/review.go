package review

import (
	"errors"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrDuplicateReview is returned when a user already reviewed the destination.
	ErrDuplicateReview = errors.New("user has already reviewed this destination")
	// ErrInvalidRating is returned for ratings outside MinRating..MaxRating.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Review is a user's rating of a destination.
type Review struct {
	ID            int       `json:"id"`
	UserID        string    `json:"user_id"`
	DestinationID int       `json:"destination_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// CheckSubmission validates r against the reviews already stored for its
// destination.
func CheckSubmission(r Review, existing []Review) error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	for _, e := range existing {
		if e.UserID == r.UserID && e.DestinationID == r.DestinationID {
			return ErrDuplicateReview
		}
	}
	return nil
}

// Summary aggregates the ratings of one destination.
type Summary struct {
	Average      float64     `json:"average_rating"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"`
}

// Aggregate computes the mean rating and count. With no reviews the
// average is 0.
func Aggregate(reviews []Review) Summary {
	s := Summary{Distribution: make(map[int]int, MaxRating)}
	for i := MinRating; i <= MaxRating; i++ {
		s.Distribution[i] = 0
	}
	if len(reviews) == 0 {
		return s
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		s.Distribution[r.Rating]++
	}
	s.Count = len(reviews)
	s.Average = float64(sum) / float64(s.Count)
	return s
}

// AverageRating returns the mean rating of reviews, or 0 if there are none.
func AverageRating(reviews []Review) float64 {
	return Aggregate(reviews).Average
}

// Count returns the number of reviews.
func Count(reviews []Review) int {
	return len(reviews)
}
