package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/trekinfo/internal/destination"
	"github.com/neexbeast/trekinfo/internal/geo"
)

// ErrConflict is returned when a row changed underneath a conditional update.
var ErrConflict = errors.New("record was modified concurrently")

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository provides database access for the catalog, bookings, chat and reviews.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

const destinationColumns = `
	id, name, location, description, altitude, duration_days, difficulty,
	price::float8, latitude, longitude, featured, best_season, group_size_max,
	created_at, updated_at`

func scanDestination(row pgx.Row, d *destination.Destination) error {
	var difficulty string
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Location,
		&d.Description,
		&d.Altitude,
		&d.DurationDays,
		&difficulty,
		&d.Price,
		&d.Latitude,
		&d.Longitude,
		&d.Featured,
		&d.BestSeason,
		&d.GroupSizeMax,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return err
	}
	level, err := destination.ParseDifficulty(difficulty)
	if err != nil {
		return err
	}
	d.Difficulty = level
	return nil
}

// GetDestination retrieves a destination by id.
// Returns nil, nil when it does not exist.
func (r *Repository) GetDestination(ctx context.Context, id int) (*destination.Destination, error) {
	q := `SELECT ` + destinationColumns + ` FROM destinations WHERE id = $1`

	var d destination.Destination
	if err := scanDestination(r.q.QueryRow(ctx, q, id), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying destination %d: %w", id, err)
	}

	return &d, nil
}

// orderColumns maps catalog ordering fields to SQL. User input never
// reaches the ORDER BY clause except through this table.
var orderColumns = map[string]string{
	"price":         "price",
	"duration_days": "duration_days",
	"altitude":      "altitude",
	"created_at":    "created_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListDestinations returns the catalog, featured first then by name unless
// the filter asks for another ordering.
func (r *Repository) ListDestinations(ctx context.Context, f destination.ListFilter) ([]destination.Destination, error) {
	orderBy := "featured DESC, name"
	if f.Ordering != "" {
		field, desc, err := destination.ParseOrdering(f.Ordering)
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		orderBy = orderColumns[field] + " " + dir + ", name"
	}

	search := strings.TrimSpace(f.Search)
	pattern := ""
	if search != "" {
		pattern = "%" + likeEscaper.Replace(search) + "%"
	}

	q := `SELECT ` + destinationColumns + ` FROM destinations
		WHERE ($1 = FALSE OR featured)
		  AND ($2 = '' OR name ILIKE $3 OR location ILIKE $3 OR description ILIKE $3)
		ORDER BY ` + orderBy

	rows, err := r.q.Query(ctx, q, f.FeaturedOnly, search, pattern)
	if err != nil {
		return nil, fmt.Errorf("querying destinations: %w", err)
	}
	defer rows.Close()

	results := []destination.Destination{}
	for rows.Next() {
		var d destination.Destination
		if err := scanDestination(rows, &d); err != nil {
			return nil, fmt.Errorf("scanning destination row: %w", err)
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating destination rows: %w", err)
	}

	return results, nil
}

// ListRoutePoints returns a destination's waypoints in sequence order.
func (r *Repository) ListRoutePoints(ctx context.Context, destinationID int) ([]geo.RoutePoint, error) {
	const q = `
		SELECT destination_id, sequence_order, latitude, longitude, altitude, location_name, description
		FROM route_points
		WHERE destination_id = $1
		ORDER BY sequence_order
	`

	rows, err := r.q.Query(ctx, q, destinationID)
	if err != nil {
		return nil, fmt.Errorf("querying route for destination %d: %w", destinationID, err)
	}
	defer rows.Close()

	points := []geo.RoutePoint{}
	for rows.Next() {
		var p geo.RoutePoint
		if err := rows.Scan(
			&p.DestinationID,
			&p.SequenceOrder,
			&p.Latitude,
			&p.Longitude,
			&p.Altitude,
			&p.LocationName,
			&p.Description,
		); err != nil {
			return nil, fmt.Errorf("scanning route point row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating route point rows: %w", err)
	}

	return points, nil
}

// ReplaceRoute rewrites a destination's waypoints in one transaction.
// Reordering a route goes through here; rows are never renumbered in place.
func (r *Repository) ReplaceRoute(ctx context.Context, destinationID int, points []geo.RoutePoint) error {
	route := make([]geo.RoutePoint, len(points))
	for i, p := range points {
		p.DestinationID = destinationID
		route[i] = p
	}
	if err := geo.Validate(route, true); err != nil {
		return fmt.Errorf("replacing route for destination %d: %w", destinationID, err)
	}

	return withTx(ctx, r.q, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM route_points WHERE destination_id = $1`, destinationID); err != nil {
			return fmt.Errorf("deleting route for destination %d: %w", destinationID, err)
		}

		const ins = `
			INSERT INTO route_points (destination_id, sequence_order, latitude, longitude, altitude, location_name, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for _, p := range geo.Sorted(route) {
			if _, err := tx.Exec(ctx, ins,
				destinationID, p.SequenceOrder, p.Latitude, p.Longitude, p.Altitude, p.LocationName, p.Description,
			); err != nil {
				return fmt.Errorf("inserting route point %d for destination %d: %w", p.SequenceOrder, destinationID, err)
			}
		}
		return nil
	})
}
