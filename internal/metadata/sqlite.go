package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/match"
	"github.com/gamehoard/gamehoard/internal/models"
)

// fuzzyCandidateLimit bounds how many rows a fuzzy search pulls for
// in-process ranking.
const fuzzyCandidateLimit = 500

// SQLiteCatalog implements Catalog over a local SQLite database.
type SQLiteCatalog struct {
	db     *sql.DB
	logger *events.Logger
}

// NewSQLiteCatalog opens (and initializes, if needed) a catalog database.
func NewSQLiteCatalog(dbPath string, logger *events.Logger) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	catalog := &SQLiteCatalog{
		db:     db,
		logger: logger.WithField("component", "sqlite_catalog"),
	}

	if err := catalog.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return catalog, nil
}

// initialize creates tables and indexes.
func (c *SQLiteCatalog) initialize() error {
	schema := `
    CREATE TABLE IF NOT EXISTS games (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        title_norm TEXT NOT NULL,
        platform TEXT NOT NULL DEFAULT '',
        developer TEXT NOT NULL DEFAULT '',
        publisher TEXT NOT NULL DEFAULT '',
        release_date TIMESTAMP,
        description TEXT NOT NULL DEFAULT '',
        genres TEXT NOT NULL DEFAULT '[]',
        rating REAL NOT NULL DEFAULT 0,
        cover_url TEXT NOT NULL DEFAULT '',
        source TEXT NOT NULL DEFAULT '',
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_games_title_norm ON games(title_norm);
    CREATE INDEX IF NOT EXISTS idx_games_platform ON games(platform);
    `

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Import upserts reference records into the catalog.
func (c *SQLiteCatalog) Import(ctx context.Context, records []models.GameMetadata) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
        INSERT INTO games (id, title, title_norm, platform, developer, publisher,
                           release_date, description, genres, rating, cover_url, source, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            title_norm = excluded.title_norm,
            platform = excluded.platform,
            developer = excluded.developer,
            publisher = excluded.publisher,
            release_date = excluded.release_date,
            description = excluded.description,
            genres = excluded.genres,
            rating = excluded.rating,
            cover_url = excluded.cover_url,
            source = excluded.source,
            updated_at = CURRENT_TIMESTAMP
    `)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		genres, err := json.Marshal(rec.Genres)
		if err != nil {
			return fmt.Errorf("marshal genres: %w", err)
		}

		_, err = stmt.Exec(rec.ID, rec.Title, match.NormalizeTitle(rec.Title),
			rec.Platform, rec.Developer, rec.Publisher, rec.ReleaseDate,
			rec.Description, string(genres), rec.Rating, rec.CoverURL, rec.Source)
		if err != nil {
			return fmt.Errorf("upsert record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	c.logger.WithField("records", len(records)).Info("Imported catalog records")
	return nil
}

// SearchExact returns records whose normalized title equals name.
func (c *SQLiteCatalog) SearchExact(ctx context.Context, name, platform string) ([]models.GameMetadata, error) {
	query := `
        SELECT id, title, platform, developer, publisher, release_date,
               description, genres, rating, cover_url, source
        FROM games
        WHERE title_norm = ?
    `
	args := []interface{}{match.NormalizeTitle(name)}

	if platform != "" {
		query += " AND platform = ? COLLATE NOCASE"
		args = append(args, platform)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &models.CatalogError{Op: "search_exact", Err: err}
	}
	defer rows.Close()

	return scanRecords(rows)
}

// SearchFuzzy pulls candidate rows and ranks them in process by title
// similarity, best first.
func (c *SQLiteCatalog) SearchFuzzy(ctx context.Context, name, platform string, maxResults int) ([]models.GameMetadata, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	norm := match.NormalizeTitle(name)

	// Candidates are pulled by containment in both directions so titles
	// that differ in their leading characters (query "game" vs stored
	// "thegame") still reach the similarity ranking.
	query := `
        SELECT id, title, platform, developer, publisher, release_date,
               description, genres, rating, cover_url, source
        FROM games
        WHERE (title_norm LIKE '%' || ? || '%' OR ? LIKE '%' || title_norm || '%')
    `
	args := []interface{}{norm, norm}

	if platform != "" {
		query += " AND platform = ? COLLATE NOCASE"
		args = append(args, platform)
	}

	query += " LIMIT ?"
	args = append(args, fuzzyCandidateLimit)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &models.CatalogError{Op: "search_fuzzy", Err: err}
	}
	defer rows.Close()

	candidates, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	type scored struct {
		rec   models.GameMetadata
		score float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, rec := range candidates {
		score := match.TitleSimilarity(norm, match.NormalizeTitle(rec.Title))
		ranked = append(ranked, scored{rec: rec, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	results := make([]models.GameMetadata, len(ranked))
	for i, s := range ranked {
		results[i] = s.rec
	}

	return results, nil
}

// IsPopulated reports whether the catalog holds any records.
func (c *SQLiteCatalog) IsPopulated(ctx context.Context) (bool, error) {
	var count int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games").Scan(&count)
	if err != nil {
		return false, &models.CatalogError{Op: "count", Err: err}
	}
	return count > 0, nil
}

// Close releases the database handle.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

func scanRecords(rows *sql.Rows) ([]models.GameMetadata, error) {
	var records []models.GameMetadata

	for rows.Next() {
		var rec models.GameMetadata
		var releaseDate sql.NullTime
		var genres string

		err := rows.Scan(&rec.ID, &rec.Title, &rec.Platform, &rec.Developer,
			&rec.Publisher, &releaseDate, &rec.Description, &genres,
			&rec.Rating, &rec.CoverURL, &rec.Source)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		if releaseDate.Valid {
			rec.ReleaseDate = releaseDate.Time
		}
		if err := json.Unmarshal([]byte(genres), &rec.Genres); err != nil {
			rec.Genres = nil
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// Touch updates a record's updated_at, used by import maintenance.
func (c *SQLiteCatalog) Touch(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx,
		"UPDATE games SET updated_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return &models.CatalogError{Op: "touch", Err: err}
	}
	return nil
}

var _ Catalog = (*SQLiteCatalog)(nil)
