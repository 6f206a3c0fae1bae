package repo

import (
	"context"
	"fmt"
	"os"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/usecase"
)

// FileCatalogSource reads the menu document from disk on every fetch.
type FileCatalogSource struct{ path string }

func NewFileCatalogSource(path string) *FileCatalogSource { return &FileCatalogSource{path: path} }

func (s *FileCatalogSource) Fetch(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogLoad, err)
	}
	return domain.ParseCatalog(data)
}

var _ usecase.CatalogSource = (*FileCatalogSource)(nil)
