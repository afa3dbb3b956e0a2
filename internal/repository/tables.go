package repository

import (
	"context"
	"fmt"

	"blogr/internal/models"

	"github.com/jmoiron/sqlx"
)

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

func (r *tablesRepository) CountRows(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats

	err := r.db.GetContext(ctx, &stats, `
			SELECT
				(SELECT COUNT(*) FROM users) AS users,
				(SELECT COUNT(*) FROM posts) AS posts
		`)
	if err != nil {
		return nil, fmt.Errorf("count table rows: %w", err)
	}

	return &stats, nil
}
