package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabohq/backend/internal/domain"
	"github.com/gabohq/backend/internal/observability"
)

// Answer sources recorded per turn
const (
	SourceLLM        = "llm"
	SourceDatabase   = "database"
	SourceCache      = "cache"
	SourceValidation = "validation"
)

// defaultTokenBudgets caps completion length per intent. Product answers
// stay short; instruction answers get room for numbered steps.
var defaultTokenBudgets = map[domain.Intent]int{
	domain.IntentProductSearch: 50,
	domain.IntentProductInfo:   50,
	domain.IntentInstruction:   300,
	domain.IntentOfftopic:      100,
	domain.IntentGeneral:       100,
}

const clarificationAnswer = "No escuché tu pregunta. ¿Me la repites, por favor?"

const offtopicReminder = "Recuerda que solo puedo ayudarte con temas de la ferretería."

// AssistantConfig holds configuration for the assistant turn handler
type AssistantConfig struct {
	SystemPrompt string
	// HistoryDepth is the number of past exchanges sent to the model.
	HistoryDepth int
	CacheTTL     time.Duration
	TokenBudgets map[domain.Intent]int
	// ListenTimeout and PhraseLimit bound voice capture.
	ListenTimeout time.Duration
	PhraseLimit   time.Duration
}

// TurnResult is the full outcome of one assistant turn
type TurnResult struct {
	Answer       string                  `json:"answer"`
	Intent       domain.Intent           `json:"intent"`
	Source       string                  `json:"source"`
	Term         string                  `json:"term,omitempty"`
	Matches      []domain.CandidateMatch `json:"matches,omitempty"`
	Confidence   float64                 `json:"confidence"`
	ResponseTime time.Duration           `json:"-"`
}

// AssistantService orchestrates one conversational turn: classify the
// utterance, resolve it against the inventory, answer through the
// language model with catalog context, and fall back to catalog-only
// answers when no model is reachable.
type AssistantService struct {
	catalog       domain.CatalogRepository
	completion    domain.CompletionClient
	cache         domain.CacheRepository
	conversations *ConversationService
	classifier    *IntentClassifier
	normalizer    *Normalizer
	extractor     *EntityExtractor
	search        *SearchService
	formatter     *ResponseFormatter
	transcriber   domain.Transcriber
	speaker       domain.Speaker
	config        AssistantConfig
	logger        zerolog.Logger
}

// NewAssistantService creates the turn handler with its collaborators.
// completion, cache, transcriber and speaker may be nil; the assistant
// degrades to catalog-only text answers without them.
func NewAssistantService(
	catalog domain.CatalogRepository,
	completion domain.CompletionClient,
	cache domain.CacheRepository,
	conversations *ConversationService,
	classifier *IntentClassifier,
	normalizer *Normalizer,
	extractor *EntityExtractor,
	search *SearchService,
	formatter *ResponseFormatter,
	config AssistantConfig,
	logger zerolog.Logger,
) *AssistantService {
	if config.HistoryDepth <= 0 {
		config.HistoryDepth = 5
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Hour
	}
	if config.TokenBudgets == nil {
		config.TokenBudgets = defaultTokenBudgets
	}
	if config.ListenTimeout <= 0 {
		config.ListenTimeout = 7 * time.Second
	}
	if config.PhraseLimit <= 0 {
		config.PhraseLimit = 10 * time.Second
	}
	return &AssistantService{
		catalog:       catalog,
		completion:    completion,
		cache:         cache,
		conversations: conversations,
		classifier:    classifier,
		normalizer:    normalizer,
		extractor:     extractor,
		search:        search,
		formatter:     formatter,
		config:        config,
		logger:        logger.With().Str("component", "assistant").Logger(),
	}
}

// SetVoice wires the optional speech backends.
func (s *AssistantService) SetVoice(transcriber domain.Transcriber, speaker domain.Speaker) {
	s.transcriber = transcriber
	s.speaker = speaker
}

// HandleTurn processes one user utterance and always produces an answer.
// Collaborator failures degrade the answer, they never surface as errors.
// Flow: validate -> classify -> resolve inventory -> cache -> complete ->
// format -> record.
func (s *AssistantService) HandleTurn(ctx context.Context, message string) *TurnResult {
	start := time.Now()

	message = strings.TrimSpace(message)
	if message == "" {
		result := &TurnResult{
			Answer:       clarificationAnswer,
			Intent:       domain.IntentGeneral,
			Source:       SourceValidation,
			ResponseTime: time.Since(start),
		}
		s.finish(result)
		return result
	}

	intent := s.classifier.Classify(message)
	result := &TurnResult{Intent: intent}

	if intent == domain.IntentProductSearch || intent == domain.IntentProductInfo {
		s.resolveInventory(ctx, message, result)
	}

	if cached, ok := s.cachedAnswer(ctx, message); ok {
		result.Answer = cached
		result.Source = SourceCache
		result.ResponseTime = time.Since(start)
		observability.CacheHitsTotal.Inc()
		s.finish(result)
		s.record(ctx, message, result)
		return result
	}

	answer, source := s.answer(ctx, message, result)
	if intent == domain.IntentInstruction {
		answer = s.formatter.EnsureCaution(answer)
	}
	result.Answer = s.formatter.Format(answer)
	result.Source = source
	result.ResponseTime = time.Since(start)

	if source == SourceLLM {
		s.storeAnswer(ctx, message, result.Answer)
	}

	s.finish(result)
	s.record(ctx, message, result)

	if s.speaker != nil {
		go func(text string) {
			if err := s.speaker.Speak(context.Background(), text); err != nil {
				s.logger.Warn().Err(err).Msg("speech playback failed")
			}
		}(result.Answer)
	}

	return result
}

// HandleVoiceTurn captures one spoken utterance and runs it through
// HandleTurn. Capture failures return a spoken-style clarification result
// alongside the error.
func (s *AssistantService) HandleVoiceTurn(ctx context.Context) (*TurnResult, error) {
	if s.transcriber == nil {
		return nil, domain.ErrVoiceUnavailable
	}

	text, err := s.transcriber.Transcribe(ctx, s.config.ListenTimeout, s.config.PhraseLimit)
	if err != nil {
		result := &TurnResult{
			Answer: clarificationAnswer,
			Intent: domain.IntentGeneral,
			Source: SourceValidation,
		}
		s.finish(result)
		return result, err
	}
	return s.HandleTurn(ctx, text), nil
}

// resolveInventory extracts the product term and resolves it through the
// search cascade, filling the result's term, matches and confidence.
func (s *AssistantService) resolveInventory(ctx context.Context, message string, result *TurnResult) {
	names, err := s.catalog.ListNames(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not load catalog names")
		return
	}

	term, ok := s.extractor.Extract(message, names)
	if !ok {
		s.logger.Debug().Str("message", message).Msg("no product entity recognized")
		return
	}
	result.Term = term

	matches, confidence, err := s.search.Resolve(ctx, term, true)
	if err != nil {
		s.logger.Warn().Err(err).Str("term", term).Msg("inventory resolution failed")
		return
	}
	result.Matches = matches
	result.Confidence = confidence
}

// answer produces the reply text, preferring the language model and
// degrading to catalog-only answers.
func (s *AssistantService) answer(ctx context.Context, message string, result *TurnResult) (string, string) {
	if s.completion != nil && s.completion.Available() {
		text, err := s.complete(ctx, message, result)
		if err == nil {
			return text, SourceLLM
		}
		s.logger.Warn().Err(err).Msg("completion failed, using catalog fallback")
	}
	return s.fallbackAnswer(ctx, message, result), SourceDatabase
}

// complete sends the turn to the language model with inventory context
// and recent history.
func (s *AssistantService) complete(ctx context.Context, message string, result *TurnResult) (string, error) {
	userMessage := message
	if hint := s.inventoryContext(result); hint != "" {
		userMessage = fmt.Sprintf("[Contexto de inventario: %s]\n\n%s", hint, message)
	}

	var history []domain.ChatMessage
	if s.conversations != nil {
		history = s.conversations.History(ctx, s.config.HistoryDepth*2)
	}

	budget := s.config.TokenBudgets[result.Intent]
	if budget <= 0 {
		budget = defaultTokenBudgets[domain.IntentGeneral]
	}

	return s.completion.Complete(ctx, domain.CompletionRequest{
		SystemPrompt: s.config.SystemPrompt,
		History:      history,
		UserMessage:  userMessage,
		MaxTokens:    budget,
	})
}

// inventoryContext renders the resolved matches as a compact hint for the
// model, so answers quote real stock and prices instead of inventing them.
func (s *AssistantService) inventoryContext(result *TurnResult) string {
	if result.Intent != domain.IntentProductSearch && result.Intent != domain.IntentProductInfo {
		return ""
	}
	if result.Term == "" {
		return ""
	}
	if len(result.Matches) == 0 {
		return fmt.Sprintf("no hay productos que coincidan con '%s'", result.Term)
	}

	parts := make([]string, 0, len(result.Matches))
	for i, m := range result.Matches {
		if i == 5 {
			break
		}
		p := m.Product
		parts = append(parts, fmt.Sprintf("%s ($%.2f, stock %d %s)", p.Name, p.Price, p.Stock, p.Unit))
	}
	return strings.Join(parts, "; ")
}

// fallbackAnswer builds a catalog-only reply for the basic mode, keyed on
// simple keyword checks the way the store staff actually asks.
func (s *AssistantService) fallbackAnswer(ctx context.Context, message string, result *TurnResult) string {
	folded := foldText(message)

	if strings.Contains(folded, "stock bajo") || strings.Contains(folded, "poco stock") {
		low, err := s.catalog.LowStock(ctx)
		if err != nil || len(low) == 0 {
			return "No hay productos con stock bajo en este momento."
		}
		names := make([]string, 0, len(low))
		for i, p := range low {
			if i == 5 {
				break
			}
			names = append(names, fmt.Sprintf("%s (%d %s)", p.Name, p.Stock, p.Unit))
		}
		return fmt.Sprintf("Hay %d productos con stock bajo: %s.", len(low), strings.Join(names, ", "))
	}

	if strings.Contains(folded, "cuantos productos") || strings.Contains(folded, "total de productos") {
		count, err := s.catalog.CountActive(ctx)
		if err != nil {
			return "No pude consultar el catálogo en este momento."
		}
		return fmt.Sprintf("Tenemos %d productos activos en el catálogo.", count)
	}

	if len(result.Matches) > 0 {
		parts := make([]string, 0, len(result.Matches))
		for i, m := range result.Matches {
			if i == 5 {
				break
			}
			p := m.Product
			parts = append(parts, fmt.Sprintf("%s a $%.2f (%d %s disponibles)", p.Name, p.Price, p.Stock, p.Unit))
		}
		return "Encontré: " + strings.Join(parts, "; ") + "."
	}

	switch result.Intent {
	case domain.IntentOfftopic:
		return offtopicReminder
	case domain.IntentInstruction:
		return "Ahorita no puedo darte los pasos detallados. Pregúntame por herramientas o materiales del catálogo."
	}

	if result.Term != "" {
		return fmt.Sprintf("No encontré productos relacionados con '%s'. ¿Buscas algo más?", result.Term)
	}
	return "¿Me dices qué producto buscas? Puedo revisar precios y stock del catálogo."
}

// cachedAnswer checks the answer cache under the normalized question.
func (s *AssistantService) cachedAnswer(ctx context.Context, message string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	value, err := s.cache.Get(ctx, s.cacheKey(message))
	if err != nil {
		return "", false
	}
	answer, ok := value.(string)
	if !ok || answer == "" {
		return "", false
	}
	return answer, true
}

func (s *AssistantService) storeAnswer(ctx context.Context, message, answer string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(message), answer, s.config.CacheTTL); err != nil {
		s.logger.Debug().Err(err).Msg("could not cache answer")
	}
}

func (s *AssistantService) cacheKey(message string) string {
	return "answer:" + s.normalizer.Normalize(message)
}

// record persists the turn; persistence failures only log.
func (s *AssistantService) record(ctx context.Context, message string, result *TurnResult) {
	if s.conversations == nil {
		return
	}

	in := domain.Interaction{
		Question:       message,
		Answer:         result.Answer,
		Intent:         result.Intent,
		Source:         result.Source,
		ResponseTimeMs: result.ResponseTime.Milliseconds(),
	}
	if result.Term != "" {
		confidence := result.Confidence
		in.Confidence = &confidence
	}
	if err := s.conversations.Record(ctx, in); err != nil {
		s.logger.Warn().Err(err).Msg("could not record interaction")
	}
}

func (s *AssistantService) finish(result *TurnResult) {
	observability.TurnsTotal.WithLabelValues(string(result.Intent), result.Source).Inc()
	observability.TurnDuration.Observe(result.ResponseTime.Seconds())
}
