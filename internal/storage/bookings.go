package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neexbeast/trekinfo/internal/booking"
)

const bookingColumns = `
	id, user_id, destination_id, start_date, number_of_people, status,
	special_requirements, contact_phone, created_at, updated_at`

func scanBooking(row pgx.Row, b *booking.Booking) error {
	var status string
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.DestinationID,
		&b.StartDate,
		&b.NumberOfPeople,
		&status,
		&b.SpecialRequirements,
		&b.ContactPhone,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return err
	}
	b.Status = booking.Status(status)
	return nil
}

// CreateBooking persists b and returns it with its generated fields.
// The row is always written as PENDING.
func (r *Repository) CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	q := `
		INSERT INTO bookings (user_id, destination_id, start_date, number_of_people, status, special_requirements, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bookingColumns

	var out booking.Booking
	if err := scanBooking(r.q.QueryRow(ctx, q,
		b.UserID, b.DestinationID, b.StartDate, b.NumberOfPeople, string(booking.StatusPending),
		b.SpecialRequirements, b.ContactPhone,
	), &out); err != nil {
		return booking.Booking{}, fmt.Errorf("inserting booking for user %s: %w", b.UserID, err)
	}

	return out, nil
}

// GetBooking retrieves a booking by id. Returns nil, nil when not found.
func (r *Repository) GetBooking(ctx context.Context, id int) (*booking.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b booking.Booking
	if err := scanBooking(r.q.QueryRow(ctx, q, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying booking %d: %w", id, err)
	}

	return &b, nil
}

// ListBookings returns a user's bookings, newest first.
func (r *Repository) ListBookings(ctx context.Context, userID string) ([]booking.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying bookings for user %s: %w", userID, err)
	}
	defer rows.Close()

	results := []booking.Booking{}
	for rows.Next() {
		var b booking.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scanning booking row: %w", err)
		}
		results = append(results, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating booking rows: %w", err)
	}

	return results, nil
}

// UpdateBookingStatus moves a booking from one status to another. The
// transition is validated first; the UPDATE only applies while the row
// still holds from, so a concurrent change yields ErrConflict.
func (r *Repository) UpdateBookingStatus(ctx context.Context, id int, from, to booking.Status) error {
	if err := booking.Transition(from, to); err != nil {
		return fmt.Errorf("updating booking %d: %w", id, err)
	}

	const q = `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	tag, err := r.q.Exec(ctx, q, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("updating booking %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating booking %d: %w", id, ErrConflict)
	}

	return nil
}
