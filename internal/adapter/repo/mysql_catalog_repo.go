package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/usecase"
)

var ErrNotFound = errors.New("not found")

// MySQLCatalogRepo reads the newest published menu document.
type MySQLCatalogRepo struct{ db *sql.DB }

func NewMySQLCatalogRepo(db *sql.DB) *MySQLCatalogRepo { return &MySQLCatalogRepo{db: db} }

func (r *MySQLCatalogRepo) Fetch(ctx context.Context) (*domain.Catalog, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT version, body
FROM catalog_documents
ORDER BY version DESC
LIMIT 1`)
	var (
		version int64
		body    []byte
	)
	if err := row.Scan(&version, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: catalog_documents: %w", domain.ErrCatalogLoad, ErrNotFound)
		}
		return nil, err
	}
	c, err := domain.ParseCatalog(body)
	if err != nil {
		return nil, fmt.Errorf("catalog version %d: %w", version, err)
	}
	return c, nil
}

var _ usecase.CatalogSource = (*MySQLCatalogRepo)(nil)
