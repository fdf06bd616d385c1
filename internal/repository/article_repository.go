package repository

import (
	"context"

	"newscrawl/internal/domain/entity"
)

// ArticleRepository persists crawled articles between daemon runs.
type ArticleRepository interface {
	// Create inserts an article. Articles already stored under the same
	// URL are left untouched; the returned bool reports whether a row
	// was actually written.
	Create(ctx context.Context, article *entity.Article) (bool, error)
	// ExistsByURL reports whether an article with the given URL is stored.
	ExistsByURL(ctx context.Context, url string) (bool, error)
	// CountAll returns the total number of stored articles.
	CountAll(ctx context.Context) (int64, error)
}
