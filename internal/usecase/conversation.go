package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gabohq/backend/internal/domain"
)

// Default idle time after which a new conversation starts
const defaultSessionTimeout = 30 * time.Minute

// ConversationService tracks the active conversation session and persists
// its interactions. An idle gap beyond the timeout closes the session and
// the next turn opens a fresh one with a new session id.
type ConversationService struct {
	repo    domain.InteractionRepository
	timeout time.Duration
	logger  zerolog.Logger

	mu             sync.Mutex
	sessionID      string
	conversationID int64
	lastActivity   time.Time
	now            func() time.Time
}

// NewConversationService creates a conversation tracker. A non-positive
// timeout falls back to the default.
func NewConversationService(repo domain.InteractionRepository, timeout time.Duration, logger zerolog.Logger) *ConversationService {
	if timeout <= 0 {
		timeout = defaultSessionTimeout
	}
	return &ConversationService{
		repo:    repo,
		timeout: timeout,
		logger:  logger.With().Str("component", "conversation").Logger(),
		now:     time.Now,
	}
}

// Current returns the id of the active conversation, rotating to a new
// one when the previous session expired.
func (s *ConversationService) Current(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(ctx)
}

func (s *ConversationService) currentLocked(ctx context.Context) (int64, error) {
	nowt := s.now()
	if s.conversationID != 0 && nowt.Sub(s.lastActivity) <= s.timeout {
		return s.conversationID, nil
	}

	if s.conversationID != 0 {
		if err := s.repo.EndConversation(ctx, s.conversationID, s.lastActivity); err != nil {
			s.logger.Warn().Err(err).Int64("conversation", s.conversationID).Msg("could not close expired conversation")
		}
	}

	sessionID := uuid.NewString()
	id, err := s.repo.CreateConversation(ctx, sessionID, nowt)
	if err != nil {
		return 0, err
	}
	s.sessionID = sessionID
	s.conversationID = id
	s.lastActivity = nowt
	s.logger.Info().Str("session", sessionID).Int64("conversation", id).Msg("conversation started")
	return id, nil
}

// Record persists one interaction under the active conversation and
// refreshes the idle clock.
func (s *ConversationService) Record(ctx context.Context, in domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.currentLocked(ctx)
	if err != nil {
		return err
	}
	in.ConversationID = id
	in.CreatedAt = s.now()
	if _, err := s.repo.SaveInteraction(ctx, in); err != nil {
		return err
	}
	s.lastActivity = s.now()
	return nil
}

// History returns the most recent exchanges of the active conversation as
// chat messages, oldest first. A turn without an open session returns an
// empty history rather than opening one.
func (s *ConversationService) History(ctx context.Context, limit int) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conversationID == 0 || s.now().Sub(s.lastActivity) > s.timeout {
		return nil
	}
	msgs, err := s.repo.RecentHistory(ctx, s.conversationID, limit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not load conversation history")
		return nil
	}
	return msgs
}

// End closes the active conversation, if any.
func (s *ConversationService) End(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conversationID == 0 {
		return
	}
	if err := s.repo.EndConversation(ctx, s.conversationID, s.now()); err != nil {
		s.logger.Warn().Err(err).Int64("conversation", s.conversationID).Msg("could not close conversation")
	}
	s.conversationID = 0
	s.sessionID = ""
}
