// Package identify associates detections with external catalog records.
package identify

import (
	"context"
	"fmt"
	"time"

	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/match"
	"github.com/gamehoard/gamehoard/internal/metadata"
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/naming"
)

// IdentifierID tags identifications produced by this service.
const IdentifierID = "catalog"

// Exact catalog hits score near-certain; fuzzy hits score by similarity.
const exactMatchConfidence = 0.95

// Service matches detected games against the metadata catalog.
type Service struct {
	catalog   metadata.Catalog
	logger    *events.Logger
	threshold float64
	maxFuzzy  int
}

// NewService creates an identifier. threshold is the minimum match
// confidence below which a detection stays unidentified.
func NewService(catalog metadata.Catalog, threshold float64, maxFuzzy int, logger *events.Logger) *Service {
	if threshold <= 0 {
		threshold = match.DefaultFuzzyThreshold
	}
	if maxFuzzy <= 0 {
		maxFuzzy = 10
	}
	return &Service{
		catalog:   catalog,
		logger:    logger.WithField("service", "identify"),
		threshold: threshold,
		maxFuzzy:  maxFuzzy,
	}
}

// IdentifyGame resolves one detection against the catalog. A result is
// always returned; when no candidate clears the threshold the result
// carries nil metadata and zero confidence rather than a guess.
func (s *Service) IdentifyGame(ctx context.Context, detected models.DetectedGame) (*models.IdentifiedGame, error) {
	populated, err := s.catalog.IsPopulated(ctx)
	if err != nil {
		return nil, fmt.Errorf("check catalog: %w", err)
	}
	if !populated {
		return nil, models.ErrCatalogEmpty
	}

	extracted := naming.Extract(detected.Name)
	query := extracted.CleanName
	if query == "" {
		query = detected.Name
	}

	result := &models.IdentifiedGame{
		Detected:   detected,
		Identifier: IdentifierID,
	}

	exact, err := s.catalog.SearchExact(ctx, query, extracted.Platform)
	if err != nil {
		return nil, fmt.Errorf("exact search: %w", err)
	}
	if len(exact) > 0 {
		result.Metadata = &exact[0]
		result.MatchConfidence = exactMatchConfidence
		return result, nil
	}

	fuzzy, err := s.catalog.SearchFuzzy(ctx, query, extracted.Platform, s.maxFuzzy)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search: %w", err)
	}

	queryNorm := match.NormalizeTitle(query)
	for i := range fuzzy {
		score := match.TitleSimilarity(queryNorm, match.NormalizeTitle(fuzzy[i].Title))
		if score >= s.threshold {
			result.Metadata = &fuzzy[i]
			result.MatchConfidence = score
			break
		}
	}

	if result.Metadata == nil {
		s.logger.WithFields(map[string]interface{}{
			"name":  detected.Name,
			"query": query,
		}).Debug("No catalog match above threshold")
	}

	return result, nil
}

// IdentifyAll resolves a batch of detections. Per-game failures are
// reported as unidentified results; only catalog-level failures abort.
func (s *Service) IdentifyAll(ctx context.Context, detections []models.DetectedGame) ([]models.IdentifiedGame, error) {
	results := make([]models.IdentifiedGame, 0, len(detections))

	for _, d := range detections {
		identified, err := s.IdentifyGame(ctx, d)
		if err != nil {
			if err == models.ErrCatalogEmpty {
				return nil, err
			}
			s.logger.WithError(err).WithField("name", d.Name).Warn("Identification failed")
			results = append(results, models.IdentifiedGame{
				Detected:   d,
				Identifier: IdentifierID,
			})
			continue
		}
		results = append(results, *identified)
	}

	return results, nil
}

// ToIdentification converts an identified game into the unified
// catalog's identification record form.
func ToIdentification(ig models.IdentifiedGame) models.IdentificationResult {
	return models.IdentificationResult{
		IdentifierID: ig.Identifier,
		Metadata:     ig.Metadata,
		Confidence:   ig.MatchConfidence,
		IdentifiedAt: time.Now(),
	}
}
