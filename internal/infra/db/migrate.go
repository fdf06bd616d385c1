package db

import "database/sql"

// MigrateUp creates the articles table and its indexes. Statements are
// idempotent so the daemon can run this on every start.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id           SERIAL PRIMARY KEY,
    title        TEXT NOT NULL,
    published_at TEXT NOT NULL,
    body         TEXT NOT NULL,
    url          TEXT NOT NULL UNIQUE,
    created_at   TIMESTAMPTZ DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC)`); err != nil {
		return err
	}
	return nil
}
