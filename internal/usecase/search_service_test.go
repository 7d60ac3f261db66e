package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gabohq/backend/internal/domain"
)

// mockCatalog is a hand-rolled in-memory CatalogRepository that counts
// calls so tests can assert cascade order.
type mockCatalog struct {
	products         []domain.Product
	searchExactCalls int
	listAllCalls     int
	listNamesCalls   int
	err              error
}

func (m *mockCatalog) SearchExact(_ context.Context, term string, activeOnly bool) ([]domain.Product, error) {
	m.searchExactCalls++
	if m.err != nil {
		return nil, m.err
	}
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	needle := strings.ToLower(term)
	var out []domain.Product
	for _, p := range m.products {
		if activeOnly && !p.Active {
			continue
		}
		haystack := strings.ToLower(p.Name + " " + p.Code + " " + p.Description + " " + p.Brand)
		if strings.Contains(haystack, needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) ListAll(_ context.Context, activeOnly bool) ([]domain.Product, error) {
	m.listAllCalls++
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Product
	for _, p := range m.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockCatalog) ListNames(_ context.Context) ([]string, error) {
	m.listNamesCalls++
	if m.err != nil {
		return nil, m.err
	}
	names := make([]string, 0, len(m.products))
	for _, p := range m.products {
		names = append(names, p.Name)
	}
	return names, nil
}

func (m *mockCatalog) LowStock(_ context.Context) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Product
	for _, p := range m.products {
		if p.Active && p.LowOnStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) CountActive(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	count := 0
	for _, p := range m.products {
		if p.Active {
			count++
		}
	}
	return count, nil
}

func newTestSearchService(catalog *mockCatalog, config SearchConfig) *SearchService {
	rules := domain.DefaultRules()
	normalizer := NewNormalizer(rules)
	scorer := NewConfidenceScorer(normalizer, rules)
	return NewSearchService(catalog, normalizer, scorer, config, zerolog.Nop())
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Martillo Stanley", Brand: "Stanley", Price: 12.50, Stock: 15, MinStock: 3, Unit: "unidad", Active: true},
		{ID: 2, Name: "Taladro", Brand: "Bosch", Price: 89.90, Stock: 4, MinStock: 2, Unit: "unidad", Active: true},
		{ID: 3, Name: "Cemento Gris", Description: "saco de 50kg", Price: 8.75, Stock: 40, MinStock: 10, Unit: "saco", Active: true},
		{ID: 4, Name: "Martillo Viejo", Price: 5.00, Stock: 1, MinStock: 1, Unit: "unidad", Active: false},
	}
}

func TestSearchCascade(t *testing.T) {
	ctx := context.Background()

	t.Run("exact stage short-circuits fuzzy", func(t *testing.T) {
		catalog := &mockCatalog{products: testProducts()}
		svc := newTestSearchService(catalog, SearchConfig{})

		products, err := svc.Search(ctx, "martillo", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 1 || products[0].ID != 1 {
			t.Fatalf("products = %v, want only Martillo Stanley", products)
		}
		if catalog.searchExactCalls != 1 {
			t.Errorf("searchExactCalls = %d, want 1", catalog.searchExactCalls)
		}
		if catalog.listAllCalls != 0 {
			t.Errorf("listAllCalls = %d, want 0 when exact stage hits", catalog.listAllCalls)
		}
	})

	t.Run("fuzzy stage runs only on exact miss", func(t *testing.T) {
		catalog := &mockCatalog{products: testProducts()}
		svc := newTestSearchService(catalog, SearchConfig{})

		products, err := svc.Search(ctx, "taldro", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if catalog.listAllCalls != 1 {
			t.Errorf("listAllCalls = %d, want 1", catalog.listAllCalls)
		}
		if len(products) != 1 || products[0].ID != 2 {
			t.Fatalf("products = %v, want only Taladro", products)
		}
	})

	t.Run("inactive products excluded", func(t *testing.T) {
		catalog := &mockCatalog{products: testProducts()}
		svc := newTestSearchService(catalog, SearchConfig{})

		products, err := svc.Search(ctx, "martillo viejo", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range products {
			if !p.Active {
				t.Errorf("inactive product %q returned", p.Name)
			}
		}
	})

	t.Run("empty term matches nothing and skips the catalog", func(t *testing.T) {
		catalog := &mockCatalog{products: testProducts()}
		svc := newTestSearchService(catalog, SearchConfig{})

		products, err := svc.Search(ctx, "   ", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 0 {
			t.Errorf("products = %v, want none", products)
		}
		if catalog.searchExactCalls != 0 || catalog.listAllCalls != 0 {
			t.Errorf("catalog touched for empty term: exact=%d listAll=%d", catalog.searchExactCalls, catalog.listAllCalls)
		}
	})

	t.Run("catalog error propagates", func(t *testing.T) {
		catalog := &mockCatalog{err: errors.New("db locked")}
		svc := newTestSearchService(catalog, SearchConfig{})

		if _, err := svc.Search(ctx, "martillo", true); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("exact match resolves with full confidence", func(t *testing.T) {
		catalog := &mockCatalog{products: testProducts()}
		svc := newTestSearchService(catalog, SearchConfig{})

		matches, confidence, err := svc.Resolve(ctx, "cemento", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 1 || matches[0].Source != domain.MatchSourceExact {
			t.Fatalf("matches = %v, want one exact match", matches)
		}
		if confidence != 1.0 {
			t.Errorf("confidence = %v, want 1.0", confidence)
		}
	})

	t.Run("low confidence fuzzy match is rejected at the gate", func(t *testing.T) {
		catalog := &mockCatalog{products: testProducts()}
		svc := newTestSearchService(catalog, SearchConfig{})

		// "taldro" clears the fuzzy threshold against "Taladro" but its
		// blended confidence stays under the gate.
		matches, confidence, err := svc.Resolve(ctx, "taldro", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 0 {
			t.Fatalf("matches = %v, want none", matches)
		}
		if confidence <= 0 || confidence >= 0.80 {
			t.Errorf("confidence = %v, want recorded value below the gate", confidence)
		}
	})

	t.Run("strong fuzzy match passes the gate", func(t *testing.T) {
		catalog := &mockCatalog{products: []domain.Product{
			{ID: 7, Name: "Tubería PVC", Price: 3.20, Stock: 60, MinStock: 10, Unit: "metro", Active: true},
		}}
		svc := newTestSearchService(catalog, SearchConfig{})

		// The accent keeps the exact stage from hitting, so this walks
		// the fuzzy path end to end.
		matches, confidence, err := svc.Resolve(ctx, "tuberia pvc", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 1 || matches[0].Source != domain.MatchSourceFuzzy {
			t.Fatalf("matches = %v, want one fuzzy match", matches)
		}
		if confidence < 0.80 {
			t.Errorf("confidence = %v, want >= 0.80", confidence)
		}
	})

	t.Run("no candidates yields empty result without error", func(t *testing.T) {
		catalog := &mockCatalog{products: testProducts()}
		svc := newTestSearchService(catalog, SearchConfig{})

		matches, confidence, err := svc.Resolve(ctx, "zzzz", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 0 || confidence != 0 {
			t.Errorf("got (%v, %v), want no matches and zero confidence", matches, confidence)
		}
	})
}
