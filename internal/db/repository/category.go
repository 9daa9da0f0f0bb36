package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trendwatch/youtube-trend-harvester/internal/db"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
)

// CategoryRepository manages the category reference table.
type CategoryRepository interface {
	// UpsertCategory inserts a category or refreshes its name and
	// assignable flag.
	UpsertCategory(ctx context.Context, category *models.Category) error

	// ListAll retrieves every category ordered by id.
	ListAll(ctx context.Context) ([]*models.Category, error)

	// ListAssignable retrieves the categories eligible for scraping.
	ListAssignable(ctx context.Context) ([]*models.Category, error)
}

type categoryRepository struct {
	q Querier
}

// NewCategoryRepository creates a CategoryRepository over the given querier.
func NewCategoryRepository(q Querier) CategoryRepository {
	return &categoryRepository{q: q}
}

func (r *categoryRepository) UpsertCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (category_id, name, assignable)
		VALUES ($1, $2, $3)
		ON CONFLICT (category_id) DO UPDATE
		SET name = EXCLUDED.name,
		    assignable = EXCLUDED.assignable
	`

	_, err := r.q.Exec(ctx, query, category.CategoryID, category.Name, category.Assignable)
	if err != nil {
		return db.WrapError(err, "upsert category")
	}

	return nil
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]*models.Category, error) {
	return r.list(ctx, `SELECT category_id, name, assignable FROM categories ORDER BY category_id`)
}

func (r *categoryRepository) ListAssignable(ctx context.Context) ([]*models.Category, error) {
	return r.list(ctx, `SELECT category_id, name, assignable FROM categories WHERE assignable ORDER BY category_id`)
}

func (r *categoryRepository) list(ctx context.Context, query string) ([]*models.Category, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list categories")
	}
	defer rows.Close()

	return scanCategories(rows)
}

func scanCategories(rows pgx.Rows) ([]*models.Category, error) {
	var categories []*models.Category

	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.CategoryID, &category.Name, &category.Assignable); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}
