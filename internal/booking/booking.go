package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// transitions lists the legal next states for each status.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// ErrInvalidPartySize is returned when a booking is requested for fewer than one person.
var ErrInvalidPartySize = errors.New("number of people must be at least 1")

// IllegalTransitionError reports a status change the lifecycle does not allow.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal booking transition %s -> %s", e.From, e.To)
}

// ParseStatus converts a case-insensitive string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return st, nil
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates a requested status change given the current status.
func Transition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}

// Booking is a trek reservation request.
type Booking struct {
	ID                  int       `json:"id"`
	UserID              string    `json:"user_id"`
	DestinationID       int       `json:"destination_id"`
	StartDate           time.Time `json:"start_date"`
	NumberOfPeople      int       `json:"number_of_people"`
	Status              Status    `json:"status"`
	SpecialRequirements string    `json:"special_requirements,omitempty"`
	ContactPhone        string    `json:"contact_phone"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Request carries the caller-supplied fields of a new booking.
// Status is accepted for wire compatibility but never honored.
type Request struct {
	UserID              string `json:"-"`
	DestinationID       int    `json:"destination_id"`
	StartDate           Date   `json:"start_date"`
	NumberOfPeople      int    `json:"number_of_people"`
	Status              Status `json:"status,omitempty"`
	SpecialRequirements string `json:"special_requirements"`
	ContactPhone        string `json:"contact_phone"`
}

// New builds a booking from req. Every booking starts PENDING.
func New(req Request) (Booking, error) {
	if req.NumberOfPeople < 1 {
		return Booking{}, ErrInvalidPartySize
	}
	return Booking{
		UserID:              req.UserID,
		DestinationID:       req.DestinationID,
		StartDate:           req.StartDate.Time,
		NumberOfPeople:      req.NumberOfPeople,
		Status:              StatusPending,
		SpecialRequirements: req.SpecialRequirements,
		ContactPhone:        req.ContactPhone,
	}, nil
}
