package domain

import (
	"context"
	"time"
)

// CatalogRepository defines the interface for inventory catalog access
type CatalogRepository interface {
	// SearchExact finds products whose name, code, description or brand
	// contains the term, case-insensitively. An empty term matches nothing.
	SearchExact(ctx context.Context, term string, activeOnly bool) ([]Product, error)
	ListAll(ctx context.Context, activeOnly bool) ([]Product, error)
	ListNames(ctx context.Context) ([]string, error)
	LowStock(ctx context.Context) ([]Product, error)
	CountActive(ctx context.Context) (int, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CompletionRequest carries one turn of context to the language model backend
type CompletionRequest struct {
	SystemPrompt string
	History      []ChatMessage
	UserMessage  string
	MaxTokens    int
}

// CompletionClient defines the interface for the language model backend
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Available() bool
}

// InteractionRepository defines the interface for conversation persistence
type InteractionRepository interface {
	CreateConversation(ctx context.Context, sessionID string, startedAt time.Time) (int64, error)
	EndConversation(ctx context.Context, conversationID int64, endedAt time.Time) error
	SaveInteraction(ctx context.Context, in Interaction) (int64, error)
	// RecentHistory returns the last interactions of a conversation as
	// role-tagged messages, oldest first.
	RecentHistory(ctx context.Context, conversationID int64, limit int) ([]ChatMessage, error)
}

// Transcriber defines the interface for speech-to-text capture
type Transcriber interface {
	Transcribe(ctx context.Context, listenTimeout, phraseLimit time.Duration) (string, error)
}

// Speaker defines the interface for text-to-speech playback
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Stop()
}
