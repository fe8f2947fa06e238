package storage

import (
	"context"
	"fmt"

	"github.com/neexbeast/trekinfo/internal/review"
)

// ListReviews returns a destination's reviews, newest first.
func (r *Repository) ListReviews(ctx context.Context, destinationID int) ([]review.Review, error) {
	const q = `
		SELECT id, user_id, destination_id, rating, comment, created_at
		FROM reviews
		WHERE destination_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, q, destinationID)
	if err != nil {
		return nil, fmt.Errorf("querying reviews for destination %d: %w", destinationID, err)
	}
	defer rows.Close()

	results := []review.Review{}
	for rows.Next() {
		var rv review.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.DestinationID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning review row: %w", err)
		}
		results = append(results, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating review rows: %w", err)
	}

	return results, nil
}

// CreateReview inserts a review. A second review by the same user for the
// same destination fails with review.ErrDuplicateReview.
func (r *Repository) CreateReview(ctx context.Context, rv review.Review) (review.Review, error) {
	const q = `
		INSERT INTO reviews (user_id, destination_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	out := rv
	if err := r.q.QueryRow(ctx, q, rv.UserID, rv.DestinationID, rv.Rating, rv.Comment).Scan(&out.ID, &out.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return review.Review{}, review.ErrDuplicateReview
		}
		return review.Review{}, fmt.Errorf("inserting review for destination %d: %w", rv.DestinationID, err)
	}

	return out, nil
}
