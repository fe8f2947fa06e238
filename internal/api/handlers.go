package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/trekinfo/internal/booking"
	"github.com/neexbeast/trekinfo/internal/chat"
	"github.com/neexbeast/trekinfo/internal/destination"
	"github.com/neexbeast/trekinfo/internal/geo"
	"github.com/neexbeast/trekinfo/internal/review"
	"github.com/neexbeast/trekinfo/internal/storage"
	"github.com/neexbeast/trekinfo/internal/weather"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	repo         Repository
	weather      WeatherEngine
	chatPageSize int
	now          func() time.Time
	log          *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
// chatPageSize <= 0 uses chat.DefaultPageSize.
func NewHandlers(repo Repository, engine WeatherEngine, chatPageSize int, log *slog.Logger) *Handlers {
	if chatPageSize <= 0 {
		chatPageSize = chat.DefaultPageSize
	}
	return &Handlers{
		repo:         repo,
		weather:      engine,
		chatPageSize: chatPageSize,
		now:          time.Now,
		log:          log,
	}
}

// WithClock replaces the clock used to stamp chat messages.
func (h *Handlers) WithClock(now func() time.Time) *Handlers {
	h.now = now
	return h
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handlers) internalError(w http.ResponseWriter, msg string, err error, args ...any) {
	h.log.Error(msg, append(args, "err", err)...)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return n, true
}

// loadDestination resolves the {id} path parameter. It writes the error
// response itself and returns nil when the request cannot continue.
func (h *Handlers) loadDestination(w http.ResponseWriter, r *http.Request) *destination.Destination {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return nil
	}

	dest, err := h.repo.GetDestination(r.Context(), id)
	if err != nil {
		h.internalError(w, "db get destination failed", err, "destination_id", id)
		return nil
	}
	if dest == nil {
		writeError(w, http.StatusNotFound, "destination not found")
		return nil
	}
	return dest
}

// ---- catalog ----

// ListDestinations handles GET /api/v1/destinations[?featured=true&search=q&ordering=-price].
func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := destination.ListFilter{Search: query.Get("search"), Ordering: query.Get("ordering")}

	if v := query.Get("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "featured must be a boolean")
			return
		}
		f.FeaturedOnly = b
	}
	if f.Ordering != "" {
		if _, _, err := destination.ParseOrdering(f.Ordering); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	dests, err := h.repo.ListDestinations(r.Context(), f)
	if err != nil {
		h.internalError(w, "db list destinations failed", err)
		return
	}
	writeJSON(w, http.StatusOK, dests)
}

// GetDestination handles GET /api/v1/destinations/{id}.
func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}
	writeJSON(w, http.StatusOK, dest)
}

type routeResponse struct {
	Summary geo.Summary      `json:"summary"`
	Points  []geo.RoutePoint `json:"points"`
}

func newRouteResponse(points []geo.RoutePoint) routeResponse {
	return routeResponse{Summary: geo.Summarize(points), Points: geo.Sorted(points)}
}

// GetRoute handles GET /api/v1/destinations/{id}/route.
func (h *Handlers) GetRoute(w http.ResponseWriter, r *http.Request) {
	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}

	points, err := h.repo.ListRoutePoints(r.Context(), dest.ID)
	if err != nil {
		h.internalError(w, "db list route failed", err, "destination_id", dest.ID)
		return
	}
	writeJSON(w, http.StatusOK, newRouteResponse(points))
}

// ReplaceRoute handles PUT /api/v1/destinations/{id}/route.
func (h *Handlers) ReplaceRoute(w http.ResponseWriter, r *http.Request) {
	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}

	var points []geo.RoutePoint
	if !decodeJSON(w, r, &points) {
		return
	}

	err := h.repo.ReplaceRoute(r.Context(), dest.ID, points)
	var (
		dup *geo.DuplicateOrderError
		bad *geo.InvalidOrderError
	)
	switch {
	case errors.Is(err, geo.ErrEmptyRoute), errors.As(err, &dup), errors.As(err, &bad):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		h.internalError(w, "db replace route failed", err, "destination_id", dest.ID)
		return
	}

	for i := range points {
		points[i].DestinationID = dest.ID
	}
	writeJSON(w, http.StatusOK, newRouteResponse(points))
}

// GetWeather handles GET /api/v1/destinations/{id}/weather.
// It always answers 200 once the destination exists.
func (h *Handlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}
	writeJSON(w, http.StatusOK, h.weather.CurrentRisk(r.Context(), *dest))
}

type overviewResponse struct {
	Destination destination.Destination `json:"destination"`
	Route       routeResponse           `json:"route"`
	Weather     weather.Record          `json:"weather"`
	Reviews     review.Summary          `json:"reviews"`
}

// GetOverview handles GET /api/v1/destinations/{id}/overview.
// Route, weather and reviews are loaded concurrently.
func (h *Handlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}

	out := overviewResponse{Destination: *dest}
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		points, err := h.repo.ListRoutePoints(ctx, dest.ID)
		if err != nil {
			return err
		}
		out.Route = newRouteResponse(points)
		return nil
	})

	g.Go(func() error {
		out.Weather = h.weather.CurrentRisk(ctx, *dest)
		return nil
	})

	g.Go(func() error {
		reviews, err := h.repo.ListReviews(ctx, dest.ID)
		if err != nil {
			return err
		}
		out.Reviews = review.Aggregate(reviews)
		return nil
	})

	if err := g.Wait(); err != nil {
		h.internalError(w, "overview load failed", err, "destination_id", dest.ID)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- chat ----

// ListMessages handles GET /api/v1/destinations/{id}/chat/messages[?limit=n].
func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit := h.chatPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}

	room, err := h.repo.GetOrCreateRoom(r.Context(), dest.ID)
	if err != nil {
		h.internalError(w, "chat room lookup failed", err, "destination_id", dest.ID)
		return
	}

	msgs, err := h.repo.ListRecentMessages(r.Context(), room.ID, limit)
	if err != nil {
		h.internalError(w, "chat read failed", err, "room_id", room.ID)
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

type messageRequest struct {
	Message string `json:"message"`
}

// PostMessage handles POST /api/v1/destinations/{id}/chat/messages.
func (h *Handlers) PostMessage(w http.ResponseWriter, r *http.Request) {
	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}

	var req messageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := h.repo.GetOrCreateRoom(r.Context(), dest.ID)
	if err != nil {
		h.internalError(w, "chat room lookup failed", err, "destination_id", dest.ID)
		return
	}

	msg, err := h.repo.AppendMessage(r.Context(), room.ID, UserFromContext(r.Context()), req.Message, h.now())
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		h.internalError(w, "chat append failed", err, "room_id", room.ID)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// EditMessage handles PATCH /api/v1/destinations/{id}/chat/messages/{messageID}.
// Only the author can edit, and only through the message's own destination;
// anything else is 404.
func (h *Handlers) EditMessage(w http.ResponseWriter, r *http.Request) {
	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid messageID")
		return
	}

	var req messageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.repo.EditMessage(r.Context(), dest.ID, id, UserFromContext(r.Context()), req.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		h.internalError(w, "chat edit failed", err, "message_id", id)
		return
	case msg == nil:
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// ---- reviews ----

type reviewsResponse struct {
	Summary review.Summary  `json:"summary"`
	Reviews []review.Review `json:"reviews"`
}

// ListReviews handles GET /api/v1/destinations/{id}/reviews.
func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}

	reviews, err := h.repo.ListReviews(r.Context(), dest.ID)
	if err != nil {
		h.internalError(w, "db list reviews failed", err, "destination_id", dest.ID)
		return
	}
	writeJSON(w, http.StatusOK, reviewsResponse{Summary: review.Aggregate(reviews), Reviews: reviews})
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview handles POST /api/v1/destinations/{id}/reviews.
func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	dest := h.loadDestination(w, r)
	if dest == nil {
		return
	}

	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rv := review.Review{
		UserID:        UserFromContext(r.Context()),
		DestinationID: dest.ID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	existing, err := h.repo.ListReviews(r.Context(), dest.ID)
	if err != nil {
		h.internalError(w, "db list reviews failed", err, "destination_id", dest.ID)
		return
	}
	if err := review.CheckSubmission(rv, existing); err != nil {
		writeReviewError(w, err)
		return
	}

	created, err := h.repo.CreateReview(r.Context(), rv)
	if err != nil {
		if errors.Is(err, review.ErrDuplicateReview) {
			writeReviewError(w, err)
			return
		}
		h.internalError(w, "db create review failed", err, "destination_id", dest.ID)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func writeReviewError(w http.ResponseWriter, err error) {
	if errors.Is(err, review.ErrDuplicateReview) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeError(w, http.StatusUnprocessableEntity, err.Error())
}

// ---- bookings ----

// CreateBooking handles POST /api/v1/bookings. Any status in the body is
// ignored; new bookings are PENDING.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = UserFromContext(r.Context())

	b, err := booking.New(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	dest, err := h.repo.GetDestination(r.Context(), b.DestinationID)
	if err != nil {
		h.internalError(w, "db get destination failed", err, "destination_id", b.DestinationID)
		return
	}
	if dest == nil {
		writeError(w, http.StatusNotFound, "destination not found")
		return
	}

	created, err := h.repo.CreateBooking(r.Context(), b)
	if err != nil {
		h.internalError(w, "db create booking failed", err, "user_id", b.UserID)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListBookings handles GET /api/v1/bookings for the calling user.
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	bookings, err := h.repo.ListBookings(r.Context(), user)
	if err != nil {
		h.internalError(w, "db list bookings failed", err, "user_id", user)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/{id}/status.
// Bookings owned by another user are reported as not found.
func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	to, err := booking.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.repo.GetBooking(r.Context(), id)
	if err != nil {
		h.internalError(w, "db get booking failed", err, "booking_id", id)
		return
	}
	if b == nil || b.UserID != UserFromContext(r.Context()) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	err = h.repo.UpdateBookingStatus(r.Context(), id, b.Status, to)
	var illegal *booking.IllegalTransitionError
	switch {
	case errors.As(err, &illegal), errors.Is(err, storage.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.internalError(w, "db update booking failed", err, "booking_id", id)
		return
	}

	updated, err := h.repo.GetBooking(r.Context(), id)
	if err != nil || updated == nil {
		h.log.Warn("re-reading booking after update failed", "booking_id", id, "err", err)
		b.Status = to
		updated = b
	}
	writeJSON(w, http.StatusOK, updated)
}

// ---- health ----

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis connectivity.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		overall := "ok"
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
