package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"personachat-backend/internal/models"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

// Append inserts one chat row. Rows are never updated or deleted afterwards.
// The seq column is a bigserial assigned by the database so insertion order
// stays recoverable even when two rows land in the same timestamp tick.
func (r *ChatRepo) Append(ctx context.Context, chat *models.Chat) error {
	chat.ID = uuid.New()
	query := `INSERT INTO chats (id, conversation_id, user_id, message, is_user)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		chat.ID, chat.ConversationID, chat.UserID, chat.Message, chat.IsUser,
	).Scan(&chat.CreatedAt)
}

func (r *ChatRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*models.Chat, error) {
	query := `SELECT id, conversation_id, user_id, message, is_user, created_at
		FROM chats WHERE conversation_id = $1 ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		c := &models.Chat{}
		err := rows.Scan(&c.ID, &c.ConversationID, &c.UserID, &c.Message, &c.IsUser, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}

	return chats, rows.Err()
}

func (r *ChatRepo) CountByConversation(ctx context.Context, conversationID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM chats WHERE conversation_id = $1", conversationID,
	).Scan(&count)
	return count, err
}
