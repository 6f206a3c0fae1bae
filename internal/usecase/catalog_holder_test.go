package usecase

import (
	"context"
	"errors"
	"testing"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type stubSource struct {
	cat *domain.Catalog
	err error
	n   int
}

func (s *stubSource) Fetch(context.Context) (*domain.Catalog, error) {
	s.n++
	return s.cat, s.err
}

func TestCatalogHolder_Load(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	rec := newCountingRecorder()
	h := NewCatalogHolder(src, rec, 0)

	assert.Nil(t, h.Current())
	require.NoError(t, h.Load(context.Background()))
	assert.Same(t, src.cat, h.Current())
	assert.Equal(t, 2, rec.items)
}

func TestCatalogHolder_FailureKeepsPrevious(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	h := NewCatalogHolder(src, nil, 0)
	require.NoError(t, h.Load(context.Background()))
	prev := h.Current()

	src.cat, src.err = nil, errors.New("connection refused")
	err := h.Load(context.Background())

	require.ErrorIs(t, err, domain.ErrCatalogLoad)
	assert.Same(t, prev, h.Current())
}

func TestCatalogHolder_LoadAsync(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &stubSource{err: domain.ErrCatalogLoad}
	h := NewCatalogHolder(src, nil, 0)

	err := <-h.LoadAsync(context.Background())
	require.ErrorIs(t, err, domain.ErrCatalogLoad)
	assert.Nil(t, h.Current())
}

func TestCatalogHolder_OnCatalogPublished(t *testing.T) {
	src := &stubSource{cat: testCatalog()}
	h := NewCatalogHolder(src, nil, 0)

	require.NoError(t, h.OnCatalogPublished(context.Background(), CatalogPublishedMsg{Version: "7", Source: "cms"}))
	assert.Equal(t, 1, src.n)
	assert.NotNil(t, h.Current())
}
