package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/bookstore/internal/inventory"
	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(t.Context(), store.Config{Driver: "sqlite", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(t.Context()))
	return s
}

func inTx(t *testing.T, s *store.Store, fn func(ctx context.Context, tx *store.Tx) error) {
	t.Helper()
	ctx := t.Context()
	require.NoError(t, s.Tx(ctx, func(tx *store.Tx) error { return fn(ctx, tx) }))
}

func addBooks(t *testing.T, s *store.Store, titles ...string) {
	t.Helper()
	inTx(t, s, func(ctx context.Context, tx *store.Tx) error {
		for _, title := range titles {
			if _, err := tx.Books().Create(ctx, &model.Book{Title: title}); err != nil {
				return err
			}
		}
		return nil
	})
}

func TestStockForFirstRecordWins(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	addBooks(t, s, "A", "B")
	inTx(t, s, func(ctx context.Context, tx *store.Tx) error {
		for _, qty := range []int64{10, 3} {
			if _, err := tx.OrderRecords().Create(ctx, &model.OrderRecord{BookID: 1, QuantityInStock: qty}); err != nil {
				return err
			}
		}
		return nil
	})

	inTx(t, s, func(ctx context.Context, tx *store.Tx) error {
		n, err := inventory.StockFor(ctx, tx.Querier(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10), n, "first record, not the sum")

		n, err = inventory.StockFor(ctx, tx.Querier(), 2)
		require.NoError(t, err)
		assert.Zero(t, n, "no records means no stock")

		n, err = inventory.StockFor(ctx, tx.Querier(), 99)
		require.NoError(t, err)
		assert.Zero(t, n)
		return nil
	})
}

func TestStockForBooks(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	addBooks(t, s, "A", "B", "C")
	inTx(t, s, func(ctx context.Context, tx *store.Tx) error {
		records := []model.OrderRecord{
			{BookID: 2, QuantityInStock: 5},
			{BookID: 1, QuantityInStock: 8},
			{BookID: 2, QuantityInStock: 1},
		}
		for i := range records {
			if _, err := tx.OrderRecords().Create(ctx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})

	inTx(t, s, func(ctx context.Context, tx *store.Tx) error {
		stock, err := inventory.StockForBooks(ctx, tx.Querier(), []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, map[int64]int64{1: 8, 2: 5}, stock)
		assert.Zero(t, stock[3])

		stock, err = inventory.StockForBooks(ctx, tx.Querier(), nil)
		require.NoError(t, err)
		assert.Empty(t, stock)
		return nil
	})
}

func TestSetInitialStock(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	addBooks(t, s, "A")

	inTx(t, s, func(ctx context.Context, tx *store.Tx) error {
		require.NoError(t, inventory.SetInitialStock(ctx, tx, 1, 6))

		records, err := tx.OrderRecords().List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].IsStockOnly())
		assert.Nil(t, records[0].OrderDate)
		assert.Zero(t, records[0].TotalAmount)
		assert.Equal(t, int64(6), records[0].QuantityInStock)
		return nil
	})

	inTx(t, s, func(ctx context.Context, tx *store.Tx) error {
		require.NoError(t, inventory.SetInitialStock(ctx, tx, 1, 2))

		n, err := tx.OrderRecords().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "existing first record is updated in place")

		stock, err := inventory.StockFor(ctx, tx.Querier(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stock)
		return nil
	})
}

func TestSetInitialStockRejectsNegative(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	addBooks(t, s, "A")

	ctx := t.Context()
	err := s.Tx(ctx, func(tx *store.Tx) error {
		return inventory.SetInitialStock(ctx, tx, 1, -1)
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}
