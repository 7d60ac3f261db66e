package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/gabohq/backend/internal/domain"
)

// InteractionStore implements domain.InteractionRepository on SQLite.
type InteractionStore struct {
	db *sql.DB
}

// NewInteractionStore creates an interaction store over an open database.
func NewInteractionStore(db *sql.DB) *InteractionStore {
	return &InteractionStore{db: db}
}

// CreateConversation opens a new conversation row and returns its id.
func (s *InteractionStore) CreateConversation(ctx context.Context, sessionID string, startedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (session_id, started_at) VALUES (?, ?)`,
		sessionID, startedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// EndConversation stamps the conversation's end time.
func (s *InteractionStore) EndConversation(ctx context.Context, conversationID int64, endedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET ended_at = ? WHERE id = ?`,
		endedAt, conversationID)
	return err
}

// SaveInteraction persists one exchange and returns its id.
func (s *InteractionStore) SaveInteraction(ctx context.Context, in domain.Interaction) (int64, error) {
	var confidence interface{}
	if in.Confidence != nil {
		confidence = *in.Confidence
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (conversation_id, question, answer, intent, source, response_time_ms, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ConversationID, in.Question, in.Answer, string(in.Intent), in.Source,
		in.ResponseTimeMs, confidence, in.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentHistory returns the last limit messages of a conversation as
// alternating user/assistant chat messages, oldest first. limit counts
// messages, so one exchange contributes two.
func (s *InteractionStore) RecentHistory(ctx context.Context, conversationID int64, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		return nil, nil
	}
	exchanges := (limit + 1) / 2

	rows, err := s.db.QueryContext(ctx,
		`SELECT question, answer FROM interactions
		 WHERE conversation_id = ?
		 ORDER BY id DESC LIMIT ?`,
		conversationID, exchanges)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type exchange struct{ question, answer string }
	var recent []exchange
	for rows.Next() {
		var e exchange
		if err := rows.Scan(&e.question, &e.answer); err != nil {
			return nil, err
		}
		recent = append(recent, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows came newest first; emit oldest first.
	var msgs []domain.ChatMessage
	for i := len(recent) - 1; i >= 0; i-- {
		msgs = append(msgs,
			domain.ChatMessage{Role: domain.RoleUser, Content: recent[i].question},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: recent[i].answer},
		)
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}
