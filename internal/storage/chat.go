package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/neexbeast/trekinfo/internal/chat"
)

// GetOrCreateRoom returns the destination's chat room, creating it on first use.
func (r *Repository) GetOrCreateRoom(ctx context.Context, destinationID int) (chat.Room, error) {
	const q = `
		INSERT INTO chat_rooms (destination_id)
		VALUES ($1)
		ON CONFLICT (destination_id) DO UPDATE SET destination_id = EXCLUDED.destination_id
		RETURNING id, destination_id, created_at
	`

	var room chat.Room
	if err := r.q.QueryRow(ctx, q, destinationID).Scan(&room.ID, &room.DestinationID, &room.CreatedAt); err != nil {
		return chat.Room{}, fmt.Errorf("getting chat room for destination %d: %w", destinationID, err)
	}

	return room, nil
}

// AppendMessage adds a message to the room's log. The room row is locked
// for the duration so timestamps stay strictly increasing under
// concurrent posters.
func (r *Repository) AppendMessage(ctx context.Context, roomID int, author, text string, now time.Time) (chat.Message, error) {
	var msg chat.Message

	err := withTx(ctx, r.q, func(tx pgx.Tx) error {
		var locked int
		if err := tx.QueryRow(ctx, `SELECT id FROM chat_rooms WHERE id = $1 FOR UPDATE`, roomID).Scan(&locked); err != nil {
			return fmt.Errorf("locking chat room %d: %w", roomID, err)
		}

		var prev time.Time
		err := tx.QueryRow(ctx,
			`SELECT timestamp FROM chat_messages WHERE room_id = $1 ORDER BY timestamp DESC LIMIT 1`,
			roomID,
		).Scan(&prev)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("reading last message of room %d: %w", roomID, err)
		}

		msg, err = chat.Compose(roomID, author, text, prev, now)
		if err != nil {
			return err
		}

		const ins = `
			INSERT INTO chat_messages (id, room_id, author, message, timestamp, edited)
			VALUES ($1, $2, $3, $4, $5, FALSE)
		`
		if _, err := tx.Exec(ctx, ins, msg.ID.String(), msg.RoomID, msg.Author, msg.Text, msg.Timestamp); err != nil {
			return fmt.Errorf("inserting message into room %d: %w", roomID, err)
		}
		return nil
	})
	if err != nil {
		return chat.Message{}, err
	}

	return msg, nil
}

// ListRecentMessages returns the room's newest limit messages in ascending
// timestamp order.
func (r *Repository) ListRecentMessages(ctx context.Context, roomID, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = chat.DefaultPageSize
	}

	const q = `
		SELECT id::text, room_id, author, message, timestamp, edited
		FROM chat_messages
		WHERE room_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, q, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying messages for room %d: %w", roomID, err)
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		var id string
		if err := rows.Scan(&id, &m.RoomID, &m.Author, &m.Text, &m.Timestamp, &m.Edited); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing message id %q: %w", id, err)
		}
		msgs = append(msgs, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}

	return chat.Recent(msgs, limit), nil
}

// EditMessage replaces a message's text and marks it edited, leaving its
// timestamp alone. Only the author may edit, and only within the room of
// destinationID. Returns nil, nil when no such message exists.
func (r *Repository) EditMessage(ctx context.Context, destinationID int, id uuid.UUID, author, text string) (*chat.Message, error) {
	edited := chat.Message{}
	if err := edited.Edit(text); err != nil {
		return nil, err
	}

	const q = `
		UPDATE chat_messages
		SET message = $3, edited = TRUE
		WHERE id = $1 AND author = $2
		  AND room_id = (SELECT id FROM chat_rooms WHERE destination_id = $4)
		RETURNING id::text, room_id, author, message, timestamp, edited
	`

	var m chat.Message
	var rawID string
	err := r.q.QueryRow(ctx, q, id.String(), author, edited.Text, destinationID).Scan(&rawID, &m.RoomID, &m.Author, &m.Text, &m.Timestamp, &m.Edited)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("editing message %s: %w", id, err)
	}
	m.ID = id

	return &m, nil
}
