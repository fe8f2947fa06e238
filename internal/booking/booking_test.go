package booking_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/trekinfo/internal/booking"
)

func TestNew_AlwaysPending(t *testing.T) {
	for _, requested := range []booking.Status{"", booking.StatusConfirmed, booking.StatusCompleted, "BOGUS"} {
		b, err := booking.New(booking.Request{
			UserID:         "u1",
			DestinationID:  3,
			StartDate:      booking.Date{Time: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
			NumberOfPeople: 2,
			Status:         requested,
		})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, b.Status, "requested %q", requested)
		assert.Equal(t, "u1", b.UserID)
		assert.Equal(t, 2, b.NumberOfPeople)
	}
}

func TestRequest_StartDateForms(t *testing.T) {
	want := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{`"2026-11-01"`, `"2026-11-01T00:00:00Z"`} {
		var req booking.Request
		require.NoError(t, json.Unmarshal([]byte(`{"start_date":`+raw+`,"number_of_people":1}`), &req), raw)
		assert.True(t, want.Equal(req.StartDate.Time), raw)

		b, err := booking.New(req)
		require.NoError(t, err)
		assert.True(t, want.Equal(b.StartDate), raw)
	}

	var req booking.Request
	assert.Error(t, json.Unmarshal([]byte(`{"start_date":"01/11/2026"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"start_date":20261101}`), &req))
}

func TestDate_MarshalsCalendarDate(t *testing.T) {
	b, err := json.Marshal(booking.Date{Time: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-11-01"`, string(b))
}

func TestNew_PartySize(t *testing.T) {
	_, err := booking.New(booking.Request{NumberOfPeople: 0})
	assert.ErrorIs(t, err, booking.ErrInvalidPartySize)
}

func TestTransition_Legal(t *testing.T) {
	legal := [][2]booking.Status{
		{booking.StatusPending, booking.StatusConfirmed},
		{booking.StatusPending, booking.StatusCancelled},
		{booking.StatusConfirmed, booking.StatusCancelled},
		{booking.StatusConfirmed, booking.StatusCompleted},
	}
	for _, tr := range legal {
		assert.NoError(t, booking.Transition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestTransition_Illegal(t *testing.T) {
	illegal := [][2]booking.Status{
		{booking.StatusCompleted, booking.StatusConfirmed},
		{booking.StatusCompleted, booking.StatusCancelled},
		{booking.StatusCancelled, booking.StatusPending},
		{booking.StatusCancelled, booking.StatusConfirmed},
		{booking.StatusPending, booking.StatusCompleted},
		{booking.StatusConfirmed, booking.StatusPending},
		{booking.StatusPending, booking.StatusPending},
	}
	for _, tr := range illegal {
		err := booking.Transition(tr[0], tr[1])
		var ite *booking.IllegalTransitionError
		require.True(t, errors.As(err, &ite), "%s -> %s", tr[0], tr[1])
		assert.Equal(t, tr[0], ite.From)
		assert.Equal(t, tr[1], ite.To)
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, booking.StatusCompleted.IsTerminal())
	assert.True(t, booking.StatusCancelled.IsTerminal())
	assert.False(t, booking.StatusPending.IsTerminal())
	assert.False(t, booking.StatusConfirmed.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, err := booking.ParseStatus(" confirmed ")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, s)

	_, err = booking.ParseStatus("shipped")
	require.Error(t, err)
}
