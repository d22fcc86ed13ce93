// Package inventory reads and writes the stock level of books.
//
// There is no stock table: the stock of a book is the quantity_in_stock
// snapshot carried by its first order record (lowest id). Later records
// carry their own snapshots, which are kept but never summed.
package inventory

import (
	"context"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/query"
	"github.com/mickamy/bookstore/internal/store"
	"github.com/mickamy/bookstore/orm"
	"github.com/mickamy/bookstore/scope"
)

// StockFor returns the stock of one book, or 0 when it has no order
// records.
func StockFor(ctx context.Context, db orm.Querier, bookID int64) (int64, error) {
	stock, err := StockForBooks(ctx, db, []int64{bookID})
	if err != nil {
		return 0, err
	}
	return stock[bookID], nil
}

// StockForBooks returns the stock of each given book in one query. Books
// without order records are absent from the map, which reads as 0.
func StockForBooks(ctx context.Context, db orm.Querier, bookIDs []int64) (map[int64]int64, error) {
	orders := query.OrderRecords(db)
	pairs, err := orm.QueryPairs[int64, int64](ctx, db,
		orders.Table(), "book_id", "quantity_in_stock", orders.PK(), bookIDs)
	if err != nil {
		return nil, &model.StoreUnavailableError{Op: "read stock", Err: err}
	}
	return orm.FirstByKey(pairs), nil
}

// SetInitialStock records qty as the stock of a book. The first order
// record of the book is updated in place; a book without records gets a
// stock-only record with no customer, no date and a zero total.
func SetInitialStock(ctx context.Context, tx *store.Tx, bookID, qty int64) error {
	if qty < 0 {
		return &model.ValidationError{Field: "quantity_in_stock", Reason: "must be at least 0"}
	}

	orders := tx.OrderRecords()
	first, ok, err := orders.FindFirst(ctx, scope.Where(orders.Col("book_id")+" = ?", bookID))
	if err != nil {
		return err //nolint:wrapcheck // typed store errors
	}
	if ok {
		_, err = orders.Update(ctx, first.ID, store.OrderRecordPatch{QuantityInStock: store.Set(qty)})
		return err //nolint:wrapcheck // typed store errors
	}
	_, err = orders.Create(ctx, &model.OrderRecord{BookID: bookID, QuantityInStock: qty})
	return err //nolint:wrapcheck // typed store errors
}
