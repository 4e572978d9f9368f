package storage_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/paydash/backend/src/database"
	"github.com/username/paydash/backend/src/importer"
	"github.com/username/paydash/backend/src/models"
	"github.com/username/paydash/backend/src/storage"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database.InitDB(filepath.Join(t.TempDir(), "paydash_test.db"))
	db := database.DB
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTerminalStoreCreateAndList(t *testing.T) {
	store := storage.NewTerminalStore(setupTestDB(t))
	ctx := context.Background()

	terminal, err := store.Create(ctx, "POS 01", models.PlaceholderTerminalModel, models.TerminalStatusAvailable)
	require.NoError(t, err)
	assert.NotZero(t, terminal.ID)
	assert.Equal(t, "POS 01", terminal.Serial)
	assert.Equal(t, "pos01", terminal.SerialNormalized)
	assert.Equal(t, models.UnassignedClientID, terminal.ClientID)

	known, err := store.ListKnownIdentifiers(ctx)
	require.NoError(t, err)
	assert.Contains(t, known, "pos01")
	assert.Len(t, known, 1)
}

func TestTerminalStoreDuplicateSerial(t *testing.T) {
	store := storage.NewTerminalStore(setupTestDB(t))
	ctx := context.Background()

	_, err := store.Create(ctx, "POS 01", models.PlaceholderTerminalModel, models.TerminalStatusAvailable)
	require.NoError(t, err)

	// Same terminal under a different spelling hits the UNIQUE index on the
	// normalized serial and comes back as the typed sentinel.
	_, err = store.Create(ctx, "pos01", models.PlaceholderTerminalModel, models.TerminalStatusAvailable)
	assert.ErrorIs(t, err, importer.ErrTerminalExists)

	known, err := store.ListKnownIdentifiers(ctx)
	require.NoError(t, err)
	assert.Len(t, known, 1)
}

func TestTerminalStoreClientAssignments(t *testing.T) {
	db := setupTestDB(t)
	store := storage.NewTerminalStore(db)
	ctx := context.Background()

	_, err := store.Create(ctx, "POS 01", models.PlaceholderTerminalModel, models.TerminalStatusAssigned)
	require.NoError(t, err)
	_, err = store.Create(ctx, "POS 02", models.PlaceholderTerminalModel, models.TerminalStatusAvailable)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `UPDATE terminals SET client_id = 42 WHERE serial_normalized = 'pos01'`)
	require.NoError(t, err)

	assignments, err := store.ClientAssignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"pos01": 42}, assignments)
}

func TestSaleStoreBulkInsertAndList(t *testing.T) {
	store := storage.NewSaleStore(setupTestDB(t))
	ctx := context.Background()

	batch := []models.PersistedSale{
		{
			TransactionID:  "A98765",
			TerminalSerial: "POS 01",
			ClientID:       42,
			SaleDate:       "2025-03-10T14:22:10Z",
			GrossAmount:    1234.56,
			NetAmount:      1203.70,
			PaymentType:    "credit",
			Status:         "Aprovada",
			CardBrand:      "Visa",
			Installments:   3,
			Source:         "cielo",
		},
		{
			TransactionID:  "B11111",
			TerminalSerial: "POS 02",
			ClientID:       models.UnassignedClientID,
			SaleDate:       "2025-03-11T09:15:00Z",
			GrossAmount:    45.10,
			NetAmount:      43.97,
			PaymentType:    "pix",
			Status:         "Aprovada",
			CardBrand:      "Pix",
			Installments:   1,
			Source:         "stone",
		},
	}

	count, err := store.BulkInsert(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	sales, err := store.List(ctx, 50)
	require.NoError(t, err)
	require.Len(t, sales, 2)

	// Newest first.
	assert.Equal(t, "B11111", sales[0].TransactionID)
	assert.Equal(t, "A98765", sales[1].TransactionID)

	first := sales[1]
	assert.NotZero(t, first.ID)
	assert.Equal(t, "POS 01", first.TerminalSerial)
	assert.Equal(t, int64(42), first.ClientID)
	assert.Equal(t, "2025-03-10T14:22:10Z", first.SaleDate)
	assert.InDelta(t, 1234.56, first.GrossAmount, 0.0001)
	assert.InDelta(t, 1203.70, first.NetAmount, 0.0001)
	assert.Equal(t, "credit", first.PaymentType)
	assert.Equal(t, "Visa", first.CardBrand)
	assert.Equal(t, 3, first.Installments)
	assert.Equal(t, "cielo", first.Source)
}

func TestSaleStoreListLimit(t *testing.T) {
	store := storage.NewSaleStore(setupTestDB(t))
	ctx := context.Background()

	var batch []models.PersistedSale
	for i := 0; i < 10; i++ {
		batch = append(batch, models.PersistedSale{
			TransactionID:  "T" + string(rune('0'+i)),
			TerminalSerial: "POS 01",
			SaleDate:       "2025-03-10T00:00:00Z",
			GrossAmount:    10,
			NetAmount:      9.75,
		})
	}
	_, err := store.BulkInsert(ctx, batch)
	require.NoError(t, err)

	sales, err := store.List(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, sales, 4)
}

func TestSaleStoreBulkInsertEmpty(t *testing.T) {
	store := storage.NewSaleStore(setupTestDB(t))

	count, err := store.BulkInsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
