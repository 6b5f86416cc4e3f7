// Package metadata provides access to the reference game catalog used
// for identification.
package metadata

import (
	"context"

	"github.com/gamehoard/gamehoard/internal/models"
)

// Catalog is the queryable store of reference game records.
type Catalog interface {
	// SearchExact returns records whose title equals name, optionally
	// restricted to a platform. Comparison is case-insensitive.
	SearchExact(ctx context.Context, name, platform string) ([]models.GameMetadata, error)

	// SearchFuzzy returns up to maxResults records ranked by title
	// similarity, best first.
	SearchFuzzy(ctx context.Context, name, platform string, maxResults int) ([]models.GameMetadata, error)

	// IsPopulated reports whether the catalog holds any records.
	IsPopulated(ctx context.Context) (bool, error)

	// Close releases catalog resources.
	Close() error
}
