package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gabohq/backend/internal/domain"
	"github.com/gabohq/backend/internal/observability"
)

// SearchConfig holds the cascade thresholds. The three values are tuned
// independently and must not be collapsed into one knob.
type SearchConfig struct {
	// FuzzyThreshold accepts fuzzy candidates in open catalog search.
	FuzzyThreshold float64
	// ResolveFuzzyThreshold is the stricter acceptance used when
	// resolving a product query for the assistant.
	ResolveFuzzyThreshold float64
	// ConfidenceGate rejects the resolved top candidate below this score.
	ConfidenceGate float64
	// MaxResults caps the candidate list.
	MaxResults int
}

// SearchService runs the exact-then-fuzzy search cascade over the
// catalog. The fuzzy stage only runs when the exact stage returns
// nothing.
type SearchService struct {
	catalog    domain.CatalogRepository
	normalizer *Normalizer
	scorer     *ConfidenceScorer
	config     SearchConfig
	logger     zerolog.Logger
}

// NewSearchService creates a search service with the given configuration,
// falling back to the tuned defaults for unset values.
func NewSearchService(
	catalog domain.CatalogRepository,
	normalizer *Normalizer,
	scorer *ConfidenceScorer,
	config SearchConfig,
	logger zerolog.Logger,
) *SearchService {
	if config.FuzzyThreshold <= 0 {
		config.FuzzyThreshold = 0.60
	}
	if config.ResolveFuzzyThreshold <= 0 {
		config.ResolveFuzzyThreshold = 0.75
	}
	if config.ConfidenceGate <= 0 {
		config.ConfidenceGate = 0.80
	}
	if config.MaxResults <= 0 {
		config.MaxResults = 10
	}
	return &SearchService{
		catalog:    catalog,
		normalizer: normalizer,
		scorer:     scorer,
		config:     config,
		logger:     logger.With().Str("component", "search").Logger(),
	}
}

// Search runs the open cascade: exact hits first, fuzzy candidates at the
// loose threshold otherwise. No confidence gate applies here.
func (s *SearchService) Search(ctx context.Context, term string, activeOnly bool) ([]domain.Product, error) {
	matches, err := s.cascade(ctx, term, activeOnly, s.config.FuzzyThreshold)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(matches))
	for _, m := range matches {
		products = append(products, m.Product)
	}
	return products, nil
}

// Resolve runs the cascade for an assistant product query: the fuzzy
// stage uses the strict threshold and the top fuzzy candidate must pass
// the confidence gate or the whole result is discarded. The returned
// confidence is the gate score of the top candidate, recorded even on
// rejection so threshold tuning has data.
func (s *SearchService) Resolve(ctx context.Context, term string, activeOnly bool) ([]domain.CandidateMatch, float64, error) {
	term = s.normalizer.Normalize(term)
	matches, err := s.cascade(ctx, term, activeOnly, s.config.ResolveFuzzyThreshold)
	if err != nil {
		return nil, 0, err
	}
	if len(matches) == 0 {
		return nil, 0, nil
	}

	if matches[0].Source == domain.MatchSourceExact {
		return matches, 1.0, nil
	}

	confidence := s.scorer.Score(term, matches[0].Product.Name)
	if confidence < s.config.ConfidenceGate {
		observability.LowConfidenceRejections.Inc()
		s.logger.Debug().
			Str("term", term).
			Str("candidate", matches[0].Product.Name).
			Float64("confidence", confidence).
			Float64("gate", s.config.ConfidenceGate).
			Msg("top fuzzy candidate rejected")
		return nil, confidence, nil
	}
	return matches, confidence, nil
}

func (s *SearchService) cascade(ctx context.Context, term string, activeOnly bool, fuzzyThreshold float64) ([]domain.CandidateMatch, error) {
	term = s.normalizer.Normalize(strings.TrimSpace(term))
	if term == "" {
		return nil, nil
	}

	exact, err := s.catalog.SearchExact(ctx, term, activeOnly)
	if err != nil {
		return nil, err
	}
	if len(exact) > 0 {
		matches := make([]domain.CandidateMatch, 0, len(exact))
		for _, p := range exact {
			matches = append(matches, domain.CandidateMatch{
				Product: p,
				Score:   1.0,
				Source:  domain.MatchSourceExact,
			})
			if len(matches) == s.config.MaxResults {
				break
			}
		}
		return matches, nil
	}

	observability.FuzzySearchesTotal.Inc()
	return s.fuzzy(ctx, term, activeOnly, fuzzyThreshold)
}

// fuzzy scores every catalog product against the term, taking each
// product's best field score across name, description and brand.
func (s *SearchService) fuzzy(ctx context.Context, term string, activeOnly bool, threshold float64) ([]domain.CandidateMatch, error) {
	products, err := s.catalog.ListAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	var matches []domain.CandidateMatch
	for _, p := range products {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score := s.fieldScore(term, p.Name)
		if desc := s.fieldScore(term, p.Description); desc > score {
			score = desc
		}
		if brand := s.fieldScore(term, p.Brand); brand > score {
			score = brand
		}
		if score >= threshold {
			matches = append(matches, domain.CandidateMatch{
				Product: p,
				Score:   score,
				Source:  domain.MatchSourceFuzzy,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > s.config.MaxResults {
		matches = matches[:s.config.MaxResults]
	}
	return matches, nil
}

func (s *SearchService) fieldScore(term, field string) float64 {
	if field == "" {
		return 0
	}
	return sequenceRatio(term, s.normalizer.Normalize(field))
}
