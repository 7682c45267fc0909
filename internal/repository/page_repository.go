package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/workspace-service/internal/domain"
)

// PageRepository encapsulates page persistence.
type PageRepository interface {
	Create(ctx context.Context, page *domain.Page) error
	Update(ctx context.Context, page *domain.Page) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Page, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Page, error)
	ListAll(ctx context.Context) ([]domain.Page, error)
}

type pageRepository struct {
	pool *pgxpool.Pool
}

// NewPageRepository instantiates a Postgres-backed repository.
func NewPageRepository(pool *pgxpool.Pool) PageRepository {
	return &pageRepository{pool: pool}
}

func (r *pageRepository) Create(ctx context.Context, page *domain.Page) error {
	const query = `
        INSERT INTO pages (owner_id, title, slug, content, category, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		page.OwnerID,
		page.Title,
		page.Slug,
		page.Content,
		page.Category,
		page.Status,
	).Scan(&page.ID, &page.CreatedAt, &page.UpdatedAt)
}

func (r *pageRepository) Update(ctx context.Context, page *domain.Page) error {
	const query = `
        UPDATE pages SET title=$1, slug=$2, content=$3, category=$4, status=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		page.Title,
		page.Slug,
		page.Content,
		page.Category,
		page.Status,
		page.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pageRepository) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM pages WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *pageRepository) GetByID(ctx context.Context, id string) (*domain.Page, error) {
	const query = `
        SELECT id, owner_id, title, slug, content, category, status, created_at, updated_at
        FROM pages WHERE id=$1`

	var page domain.Page
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&page.ID,
		&page.OwnerID,
		&page.Title,
		&page.Slug,
		&page.Content,
		&page.Category,
		&page.Status,
		&page.CreatedAt,
		&page.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Page, error) {
	const query = `
        SELECT id, owner_id, title, slug, content, category, status, created_at, updated_at
        FROM pages WHERE owner_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPages(rows)
}

func (r *pageRepository) ListAll(ctx context.Context) ([]domain.Page, error) {
	const query = `
        SELECT id, owner_id, title, slug, content, category, status, created_at, updated_at
        FROM pages ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPages(rows)
}

func scanPages(rows pgx.Rows) ([]domain.Page, error) {
	var result []domain.Page
	for rows.Next() {
		var page domain.Page
		if err := rows.Scan(
			&page.ID,
			&page.OwnerID,
			&page.Title,
			&page.Slug,
			&page.Content,
			&page.Category,
			&page.Status,
			&page.CreatedAt,
			&page.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, page)
	}
	return result, rows.Err()
}
