package domain

import "time"

// Product represents a catalog item of the hardware store inventory
type Product struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"minStock"`
	Unit        string  `json:"unit"`
	Active      bool    `json:"active"`
}

// LowOnStock reports whether the product is at or below its minimum stock level.
func (p *Product) LowOnStock() bool {
	return p.Stock <= p.MinStock
}

// InStock reports whether any units are available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Intent is the coarse category the assistant assigns to an utterance
type Intent string

const (
	IntentProductSearch Intent = "product_search"
	IntentProductInfo   Intent = "product_info"
	IntentInstruction   Intent = "instruction"
	IntentOfftopic      Intent = "offtopic"
	IntentGeneral       Intent = "general"
)

// MatchSource records which stage of the search cascade produced a candidate
type MatchSource string

const (
	MatchSourceExact MatchSource = "exact"
	MatchSourceFuzzy MatchSource = "fuzzy"
)

// CandidateMatch is a catalog product paired with its similarity score
type CandidateMatch struct {
	Product Product     `json:"product"`
	Score   float64     `json:"score"`
	Source  MatchSource `json:"source"`
}

// Resolution captures how an utterance was mapped onto the inventory
type Resolution struct {
	Intent     Intent           `json:"intent"`
	Term       string           `json:"term,omitempty"`
	Matches    []CandidateMatch `json:"matches,omitempty"`
	Confidence float64          `json:"confidence"`
}

// Interaction is one recorded question/answer exchange within a conversation
type Interaction struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Intent         Intent    `json:"intent"`
	Source         string    `json:"source"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	Confidence     *float64  `json:"confidence,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ChatMessage is a single role-tagged message sent to the completion backend
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
