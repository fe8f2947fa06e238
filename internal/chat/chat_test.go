package chat_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/trekinfo/internal/chat"
)

var base = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func TestCompose_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := chat.Compose(1, "alice", text, time.Time{}, base)
		assert.ErrorIs(t, err, chat.ErrEmptyMessage, "text %q", text)
	}
}

func TestCompose_TrimsAndStamps(t *testing.T) {
	m, err := chat.Compose(7, "alice", "  anyone at Namche on the 4th?  ", time.Time{}, base)
	require.NoError(t, err)
	assert.Equal(t, "anyone at Namche on the 4th?", m.Text)
	assert.Equal(t, 7, m.RoomID)
	assert.Equal(t, base, m.Timestamp)
	assert.False(t, m.Edited)
	assert.NotEqual(t, uuid.Nil, m.ID)
}

func TestCompose_TimestampStrictlyIncreasing(t *testing.T) {
	first, err := chat.Compose(1, "a", "one", time.Time{}, base)
	require.NoError(t, err)

	// Same wall clock reading.
	second, err := chat.Compose(1, "b", "two", first.Timestamp, base)
	require.NoError(t, err)
	assert.True(t, second.Timestamp.After(first.Timestamp))

	// Clock went backwards.
	third, err := chat.Compose(1, "c", "three", second.Timestamp, base.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, third.Timestamp.After(second.Timestamp))
}

func TestMessage_Edit(t *testing.T) {
	m, err := chat.Compose(1, "a", "hello", time.Time{}, base)
	require.NoError(t, err)
	ts := m.Timestamp

	require.NoError(t, m.Edit("hello all"))
	assert.Equal(t, "hello all", m.Text)
	assert.True(t, m.Edited)
	assert.Equal(t, ts, m.Timestamp)

	assert.ErrorIs(t, m.Edit("  "), chat.ErrEmptyMessage)
	assert.Equal(t, "hello all", m.Text)
}

func TestRecent_OrderAndBound(t *testing.T) {
	var msgs []chat.Message
	for i := 5; i > 0; i-- {
		msgs = append(msgs, chat.Message{Text: string(rune('a' + i)), Timestamp: base.Add(time.Duration(i) * time.Second)})
	}

	got := chat.Recent(msgs, 3)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Timestamp.Before(got[i-1].Timestamp))
	}
	assert.Equal(t, base.Add(5*time.Second), got[2].Timestamp)
	assert.Equal(t, base.Add(3*time.Second), got[0].Timestamp)
}

func TestRecent_DefaultPageSize(t *testing.T) {
	msgs := make([]chat.Message, 150)
	for i := range msgs {
		msgs[i].Timestamp = base.Add(time.Duration(i) * time.Second)
	}
	got := chat.Recent(msgs, 0)
	assert.Len(t, got, chat.DefaultPageSize)
	assert.Equal(t, msgs[149].Timestamp, got[99].Timestamp)
}
