package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const menuDoc = `{
  "categories": [{"title": "Mains", "items": [{"id": 201, "name": "Dal Makhani", "price": 220}]}],
  "todayOffer": {"enabled": false, "items": []},
  "discounts": {"deliverySlabs": [{"minSubtotal": 500, "percent": 10}]},
  "tax": {"gstPercent": 5}
}`

func TestMySQLCatalogRepo_Fetch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT version, body\s+FROM catalog_documents`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "body"}).AddRow(3, []byte(menuDoc)))

	c, err := NewMySQLCatalogRepo(db).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, domain.PercentOf(5), c.Tax.GSTPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCatalogRepo_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM catalog_documents`).WillReturnRows(sqlmock.NewRows([]string{"version", "body"}))

	_, err = NewMySQLCatalogRepo(db).Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogLoad)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMySQLCatalogRepo_InvalidDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM catalog_documents`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "body"}).AddRow(4, []byte(`{"categories": [{"items": [{"id": "", "price": 1}]}]}`)))

	_, err = NewMySQLCatalogRepo(db).Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogLoad)
}

func TestMySQLCatalogRepo_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("conn reset")
	mock.ExpectQuery(`FROM catalog_documents`).WillReturnError(boom)

	_, err = NewMySQLCatalogRepo(db).Fetch(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestMySQLHandoffLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO order_handoffs`).
		WithArgs("ref-1", "sess", "pickup", int64(3), int64(462), at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewMySQLHandoffLog(db).PublishHandoff(context.Background(), usecase.HandoffMsg{
		Ref: "ref-1", SessionID: "sess", OrderType: "pickup", Items: 3, GrandTotal: 462, At: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileCatalogSource(t *testing.T) {
	p := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(p, []byte(menuDoc), 0o644))

	c, err := NewFileCatalogSource(p).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mains", c.Categories[0].Title)

	_, err = NewFileCatalogSource(filepath.Join(t.TempDir(), "missing.json")).Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogLoad)
}
