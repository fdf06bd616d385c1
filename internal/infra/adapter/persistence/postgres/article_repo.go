// Package postgres implements article persistence on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"newscrawl/internal/domain/entity"
	"newscrawl/internal/repository"
)

type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

// Create inserts an article keyed by URL. Re-crawled articles are left
// untouched rather than updated, so repeated daemon runs are idempotent.
func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) (bool, error) {
	const query = `
INSERT INTO articles (title, published_at, body, url, created_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (url) DO NOTHING`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.PublishedAt, article.Body, article.URL)
	if err != nil {
		return false, fmt.Errorf("Create: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Create: RowsAffected: %w", err)
	}
	return n > 0, nil
}

func (repo *ArticleRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM articles WHERE url = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, url).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return exists, nil
}

func (repo *ArticleRepo) CountAll(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountAll: %w", err)
	}
	return count, nil
}
