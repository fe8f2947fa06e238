package chat

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPageSize is the number of messages returned by a transcript read.
const DefaultPageSize = 100

// tick is the smallest timestamp step the store can represent.
const tick = time.Microsecond

// ErrEmptyMessage is returned when a message has no text after trimming.
var ErrEmptyMessage = errors.New("message cannot be empty")

// Room is the single group chat attached to a destination.
type Room struct {
	ID            int       `json:"id"`
	DestinationID int       `json:"destination_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Message is an entry of a room's append-only log.
type Message struct {
	ID        uuid.UUID `json:"id"`
	RoomID    int       `json:"room_id"`
	Author    string    `json:"author"`
	Text      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Edited    bool      `json:"edited"`
}

// Compose builds the next message of a room. prev is the timestamp of the
// room's latest message (zero for an empty room); the new timestamp is
// always strictly after it.
func Compose(roomID int, author, text string, prev, now time.Time) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	ts := now.UTC().Truncate(tick)
	if !prev.IsZero() && !ts.After(prev) {
		ts = prev.Add(tick)
	}

	return Message{
		ID:        uuid.New(),
		RoomID:    roomID,
		Author:    author,
		Text:      text,
		Timestamp: ts,
	}, nil
}

// Edit replaces the text of m. The timestamp and position never change.
func (m *Message) Edit(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	m.Text = text
	m.Edited = true
	return nil
}

// Recent returns the n most recent messages in ascending timestamp order.
// n <= 0 uses DefaultPageSize.
func Recent(messages []Message, n int) []Message {
	if n <= 0 {
		n = DefaultPageSize
	}

	out := make([]Message, len(messages))
	copy(out, messages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
