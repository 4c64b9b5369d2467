package repository

import (
	"context"

	"oscar/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var messageColumns = []string{"id", "session_id", "text", "is_bot", "created_at"}

type MessageRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMessageRepository(db *pgxpool.Pool, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := squirrel.Insert("chat_messages").
		Columns(messageColumns...).
		Values(msg.ID, msg.SessionID, msg.Text, msg.IsBot, msg.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListBySession returns a page of a session's messages, oldest first.
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	sql, args, err := listMessagesQuery(sessionID, limit, offset).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Text, &msg.IsBot, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

func listMessagesQuery(sessionID uuid.UUID, limit, offset int) squirrel.SelectBuilder {
	return squirrel.Select(messageColumns...).
		From("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)
}
