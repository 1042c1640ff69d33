package adapter

import (
	"context"
	"errors"
	"time"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgChatRepository implements the ChatRepository port on Postgres.
//
// Expected schema:
//
//	chat_rooms        (id bigserial PK, room_name text NULL, created_at timestamptz DEFAULT now())
//	chat_room_members (room_id bigint REFERENCES chat_rooms ON DELETE CASCADE,
//	                   user_id bigint NOT NULL,
//	                   hidden boolean NOT NULL DEFAULT false,
//	                   left_at timestamptz NULL,
//	                   joined_at timestamptz NOT NULL DEFAULT now(),
//	                   PRIMARY KEY (room_id, user_id))
//	messages          (id bigserial PK, room_id bigint REFERENCES chat_rooms ON DELETE CASCADE,
//	                   sender_id bigint NOT NULL, message_type text NOT NULL,
//	                   content text NOT NULL, created_at timestamptz DEFAULT now())
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

func (r *PgChatRepository) CreateRoomWithMembers(ctx context.Context, name *string, memberIDs []int64) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var roomID int64
	err = tx.QueryRow(ctx,
		"INSERT INTO chat_rooms (room_name) VALUES ($1) RETURNING id",
		name,
	).Scan(&roomID)
	if err != nil {
		return 0, err
	}

	if err := addMembersTx(ctx, tx, roomID, memberIDs); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return roomID, nil
}

func (r *PgChatRepository) AddMembers(ctx context.Context, roomID int64, userIDs []int64) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := addMembersTx(ctx, tx, roomID, userIDs); err != nil {
		return mapForeignKey(err)
	}
	return tx.Commit(ctx)
}

func addMembersTx(ctx context.Context, tx pgx.Tx, roomID int64, userIDs []int64) error {
	batch := &pgx.Batch{}
	for _, uid := range userIDs {
		batch.Queue(`
			INSERT INTO chat_room_members (room_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (room_id, user_id) DO NOTHING
		`, roomID, uid)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (r *PgChatRepository) GetRoom(ctx context.Context, roomID int64) (*chat.Room, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var room chat.Room
	err := r.pool.QueryRow(ctx,
		"SELECT id, room_name, created_at FROM chat_rooms WHERE id = $1",
		roomID,
	).Scan(&room.ID, &room.Name, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *PgChatRepository) GetMembers(ctx context.Context, roomID int64) ([]chat.Member, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT room_id, user_id, hidden, left_at, joined_at
		FROM chat_room_members
		WHERE room_id = $1
		ORDER BY joined_at, user_id
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []chat.Member
	for rows.Next() {
		var m chat.Member
		if err := rows.Scan(&m.RoomID, &m.UserID, &m.Hidden, &m.LeftAt, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *PgChatRepository) GetMember(ctx context.Context, roomID, userID int64) (*chat.Member, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var m chat.Member
	err := r.pool.QueryRow(ctx, `
		SELECT room_id, user_id, hidden, left_at, joined_at
		FROM chat_room_members
		WHERE room_id = $1 AND user_id = $2
	`, roomID, userID).Scan(&m.RoomID, &m.UserID, &m.Hidden, &m.LeftAt, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgChatRepository) SetHidden(ctx context.Context, roomID, userID int64, hidden bool) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat_room_members
		SET hidden = $3,
		    left_at = CASE WHEN $3 THEN now() ELSE NULL END
		WHERE room_id = $1 AND user_id = $2
	`, roomID, userID, hidden)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgChatRepository) RevealHiddenMembers(ctx context.Context, roomID int64) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat_room_members
		SET hidden = FALSE, left_at = NULL
		WHERE room_id = $1 AND hidden = TRUE
	`, roomID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgChatRepository) FindDirectRoom(ctx context.Context, userA, userB int64) (*chat.Room, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	// Exactly these two users, visibility ignored; newest room wins.
	var room chat.Room
	err := r.pool.QueryRow(ctx, `
		SELECT r.id, r.room_name, r.created_at
		FROM chat_rooms r
		JOIN chat_room_members m ON m.room_id = r.id
		GROUP BY r.id
		HAVING COUNT(*) = 2
		   AND COUNT(*) FILTER (WHERE m.user_id = $1) = 1
		   AND COUNT(*) FILTER (WHERE m.user_id = $2) = 1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT 1
	`, userA, userB).Scan(&room.ID, &room.Name, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *PgChatRepository) DeleteRoom(ctx context.Context, roomID int64) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, "DELETE FROM chat_rooms WHERE id = $1", roomID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgChatRepository) InsertMessage(ctx context.Context, m chat.Message) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (room_id, sender_id, message_type, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.RoomID, m.SenderID, m.Type, m.Content).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, mapForeignKey(err)
	}
	return &m, nil
}

func (r *PgChatRepository) GetMessage(ctx context.Context, messageID int64) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var m chat.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id, room_id, sender_id, message_type, content, created_at
		FROM messages WHERE id = $1
	`, messageID).Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Type, &m.Content, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgChatRepository) LatestMessage(ctx context.Context, roomID int64) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var m chat.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id, room_id, sender_id, message_type, content, created_at
		FROM messages
		WHERE room_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, roomID).Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Type, &m.Content, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, roomID int64, before *time.Time, limit, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, sender_id, message_type, content, created_at
		FROM messages
		WHERE room_id = $1
		  AND ($2::timestamptz IS NULL OR created_at <= $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`, roomID, before, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Type, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgChatRepository) ListUserRooms(ctx context.Context, userID int64) ([]chat.RoomSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.room_name, r.created_at
		FROM chat_room_members m
		JOIN chat_rooms r ON r.id = m.room_id
		WHERE m.user_id = $1 AND m.hidden = FALSE
		ORDER BY r.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []chat.RoomSummary
	for rows.Next() {
		var room chat.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, chat.RoomSummary{Room: room})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range summaries {
		roomID := summaries[i].Room.ID

		last, err := r.LatestMessage(ctx, roomID)
		if err != nil {
			return nil, err
		}
		summaries[i].LastMessage = last

		members, err := r.GetMembers(ctx, roomID)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
		}
		summaries[i].MemberIDs = ids
	}
	return summaries, nil
}

// mapForeignKey converts a missing-room FK violation into ErrNotFound so use
// cases can translate it without importing pgx.
func mapForeignKey(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return repository.ErrNotFound
	}
	return err
}
