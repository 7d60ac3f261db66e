package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabohq/backend/internal/domain"
)

func newTestInteractions(t *testing.T) *InteractionStore {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInteractionStore(db)
}

func TestInteractionStore_ConversationLifecycle(t *testing.T) {
	store := newTestInteractions(t)
	ctx := context.Background()

	id, err := store.CreateConversation(ctx, "4f2c6d1e-session", time.Now())
	require.NoError(t, err)
	assert.Positive(t, id)

	require.NoError(t, store.EndConversation(ctx, id, time.Now()))
}

func TestInteractionStore_SaveAndHistory(t *testing.T) {
	store := newTestInteractions(t)
	ctx := context.Background()

	convID, err := store.CreateConversation(ctx, "session-1", time.Now())
	require.NoError(t, err)

	confidence := 0.92
	for i := 1; i <= 4; i++ {
		_, err := store.SaveInteraction(ctx, domain.Interaction{
			ConversationID: convID,
			Question:       fmt.Sprintf("pregunta %d", i),
			Answer:         fmt.Sprintf("respuesta %d", i),
			Intent:         domain.IntentProductSearch,
			Source:         "llm",
			ResponseTimeMs: 120,
			Confidence:     &confidence,
			CreatedAt:      time.Now(),
		})
		require.NoError(t, err)
	}

	t.Run("returns last exchanges oldest first", func(t *testing.T) {
		msgs, err := store.RecentHistory(ctx, convID, 4)
		require.NoError(t, err)
		require.Len(t, msgs, 4)

		assert.Equal(t, domain.RoleUser, msgs[0].Role)
		assert.Equal(t, "pregunta 3", msgs[0].Content)
		assert.Equal(t, domain.RoleAssistant, msgs[3].Role)
		assert.Equal(t, "respuesta 4", msgs[3].Content)
	})

	t.Run("limit larger than stored history", func(t *testing.T) {
		msgs, err := store.RecentHistory(ctx, convID, 100)
		require.NoError(t, err)
		assert.Len(t, msgs, 8)
	})

	t.Run("other conversations are not mixed in", func(t *testing.T) {
		otherID, err := store.CreateConversation(ctx, "session-2", time.Now())
		require.NoError(t, err)

		msgs, err := store.RecentHistory(ctx, otherID, 10)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("non-positive limit yields nothing", func(t *testing.T) {
		msgs, err := store.RecentHistory(ctx, convID, 0)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestInteractionStore_NullConfidence(t *testing.T) {
	store := newTestInteractions(t)
	ctx := context.Background()

	convID, err := store.CreateConversation(ctx, "session-3", time.Now())
	require.NoError(t, err)

	_, err = store.SaveInteraction(ctx, domain.Interaction{
		ConversationID: convID,
		Question:       "hola",
		Answer:         "¡Hola! ¿En qué te ayudo?",
		Intent:         domain.IntentGeneral,
		Source:         "llm",
		CreatedAt:      time.Now(),
	})
	require.NoError(t, err)
}
