package metadata

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gamehoard/gamehoard/internal/match"
	"github.com/gamehoard/gamehoard/internal/models"
)

// MockCatalog provides an in-memory catalog for testing.
type MockCatalog struct {
	mu      sync.RWMutex
	records []models.GameMetadata

	// SearchErr, when set, is returned by every search.
	SearchErr error
}

// NewMockCatalog creates a catalog preloaded with records.
func NewMockCatalog(records ...models.GameMetadata) *MockCatalog {
	return &MockCatalog{records: records}
}

// Add registers additional records.
func (m *MockCatalog) Add(records ...models.GameMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
}

// SearchExact returns records whose normalized title equals name.
func (m *MockCatalog) SearchExact(ctx context.Context, name, platform string) ([]models.GameMetadata, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	norm := match.NormalizeTitle(name)

	var results []models.GameMetadata
	for _, rec := range m.records {
		if match.NormalizeTitle(rec.Title) != norm {
			continue
		}
		if platform != "" && !strings.EqualFold(rec.Platform, platform) {
			continue
		}
		results = append(results, rec)
	}

	return results, nil
}

// SearchFuzzy returns up to maxResults records ranked by similarity.
func (m *MockCatalog) SearchFuzzy(ctx context.Context, name, platform string, maxResults int) ([]models.GameMetadata, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	norm := match.NormalizeTitle(name)

	type scored struct {
		rec   models.GameMetadata
		score float64
	}

	var ranked []scored
	for _, rec := range m.records {
		if platform != "" && !strings.EqualFold(rec.Platform, platform) {
			continue
		}
		ranked = append(ranked, scored{
			rec:   rec,
			score: match.TitleSimilarity(norm, match.NormalizeTitle(rec.Title)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	results := make([]models.GameMetadata, len(ranked))
	for i, s := range ranked {
		results[i] = s.rec
	}

	return results, nil
}

// IsPopulated reports whether any records are loaded.
func (m *MockCatalog) IsPopulated(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records) > 0, nil
}

// Close is a no-op.
func (m *MockCatalog) Close() error {
	return nil
}

var _ Catalog = (*MockCatalog)(nil)
