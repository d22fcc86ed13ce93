package bookstore

import (
	"context"

	"github.com/mickamy/bookstore/internal/inventory"
	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/search"
	"github.com/mickamy/bookstore/internal/store"
	"github.com/mickamy/bookstore/orm"
)

// ListBooks returns every book with its author, genre and stock.
func (s *Service) ListBooks(ctx context.Context) ([]BookView, error) {
	return s.SearchBooks(ctx, search.Filter{})
}

// SearchBooks returns the books matching f with their author, genre and
// stock. No match is an empty slice.
func (s *Service) SearchBooks(ctx context.Context, f search.Filter) ([]BookView, error) {
	var views []BookView
	err := s.tx(ctx, func(tx *store.Tx) error {
		books, err := search.SearchBooks(ctx, tx.Querier(), f)
		if err != nil {
			return err //nolint:wrapcheck // typed store error
		}
		views, err = withStock(ctx, tx, books)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// GetBook returns one book with its relations, order records and stock.
func (s *Service) GetBook(ctx context.Context, id int64) (BookView, error) {
	var view BookView
	err := s.tx(ctx, func(tx *store.Tx) error {
		var err error
		view, err = s.bookView(ctx, tx, id)
		return err
	})
	return view, err
}

func (s *Service) bookView(ctx context.Context, tx *store.Tx, id int64) (BookView, error) {
	b, err := search.GetBook(ctx, tx.Querier(), id)
	if err != nil {
		return BookView{}, err //nolint:wrapcheck // typed store error
	}
	view := BookView{Book: b}
	if len(b.Orders) > 0 {
		view.Stock = b.Orders[0].QuantityInStock
	}
	return view, nil
}

func withStock(ctx context.Context, tx *store.Tx, books []model.Book) ([]BookView, error) {
	ids := make([]int64, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	stock, err := inventory.StockForBooks(ctx, tx.Querier(), ids)
	if err != nil {
		return nil, err //nolint:wrapcheck // typed store error
	}
	views := make([]BookView, len(books))
	for i, b := range books {
		views[i] = BookView{Book: b, Stock: stock[b.ID]}
	}
	return views, nil
}

// StockFor returns the stock of an existing book.
func (s *Service) StockFor(ctx context.Context, bookID int64) (int64, error) {
	var n int64
	err := s.tx(ctx, func(tx *store.Tx) error {
		ok, err := tx.Books().Exists(ctx, bookID)
		if err != nil {
			return err //nolint:wrapcheck // typed store error
		}
		if !ok {
			return &model.NotFoundError{Kind: model.KindBook, ID: bookID}
		}
		n, err = inventory.StockFor(ctx, tx.Querier(), bookID)
		return err //nolint:wrapcheck // typed store error
	})
	return n, err
}

func (s *Service) ListOrders(ctx context.Context) ([]model.OrderRecord, error) {
	return read(ctx, s, search.ListOrders)
}

func (s *Service) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return read(ctx, s, search.ListCustomers)
}

func (s *Service) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return read(ctx, s, search.ListAuthors)
}

func (s *Service) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return read(ctx, s, search.ListGenres)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	err := s.tx(ctx, func(tx *store.Tx) error {
		var err error
		c, err = search.GetCustomer(ctx, tx.Querier(), id)
		return err //nolint:wrapcheck // typed store error
	})
	return c, err
}

func read[T any](ctx context.Context, s *Service, fn func(context.Context, orm.Querier) ([]T, error)) ([]T, error) {
	var items []T
	err := s.tx(ctx, func(tx *store.Tx) error {
		var err error
		items, err = fn(ctx, tx.Querier())
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
