package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neexbeast/trekinfo/internal/booking"
	"github.com/neexbeast/trekinfo/internal/chat"
	"github.com/neexbeast/trekinfo/internal/destination"
	"github.com/neexbeast/trekinfo/internal/geo"
	"github.com/neexbeast/trekinfo/internal/review"
	"github.com/neexbeast/trekinfo/internal/weather"
)

// CatalogRepo defines the destination and route reads needed by handlers.
type CatalogRepo interface {
	GetDestination(ctx context.Context, id int) (*destination.Destination, error)
	ListDestinations(ctx context.Context, f destination.ListFilter) ([]destination.Destination, error)
	ListRoutePoints(ctx context.Context, destinationID int) ([]geo.RoutePoint, error)
	ReplaceRoute(ctx context.Context, destinationID int, points []geo.RoutePoint) error
}

// BookingRepo defines the booking operations needed by handlers.
type BookingRepo interface {
	CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error)
	GetBooking(ctx context.Context, id int) (*booking.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]booking.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int, from, to booking.Status) error
}

// ChatRepo defines the chat room operations needed by handlers.
type ChatRepo interface {
	GetOrCreateRoom(ctx context.Context, destinationID int) (chat.Room, error)
	AppendMessage(ctx context.Context, roomID int, author, text string, now time.Time) (chat.Message, error)
	ListRecentMessages(ctx context.Context, roomID, limit int) ([]chat.Message, error)
	EditMessage(ctx context.Context, destinationID int, id uuid.UUID, author, text string) (*chat.Message, error)
}

// ReviewRepo defines the review operations needed by handlers.
type ReviewRepo interface {
	ListReviews(ctx context.Context, destinationID int) ([]review.Review, error)
	CreateReview(ctx context.Context, rv review.Review) (review.Review, error)
}

// Repository is everything the handlers read from and write to storage.
// *storage.Repository satisfies it.
type Repository interface {
	CatalogRepo
	BookingRepo
	ChatRepo
	ReviewRepo
}

// WeatherEngine produces a destination's current weather risk. It never fails.
type WeatherEngine interface {
	CurrentRisk(ctx context.Context, d destination.Destination) weather.Record
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}
