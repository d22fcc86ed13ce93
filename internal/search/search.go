// Package search composes the joined reads of the bookstore. Every read is
// a single statement joining the parent rows with their relations, so a
// relation is never fetched separately from the row that refers to it.
package search

import (
	"context"
	"errors"
	"strings"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/query"
	"github.com/mickamy/bookstore/orm"
	"github.com/mickamy/bookstore/scope"
)

// Filter narrows SearchBooks. Each non-empty field must match as a
// case-insensitive substring; empty fields are ignored.
type Filter struct {
	TitleContains      string `json:"title,omitempty"`
	AuthorNameContains string `json:"author,omitempty"`
	GenreNameContains  string `json:"genre,omitempty"`
}

// IsZero reports whether the filter imposes no constraint.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.TitleContains) == "" &&
		strings.TrimSpace(f.AuthorNameContains) == "" &&
		strings.TrimSpace(f.GenreNameContains) == ""
}

func (f Filter) scopes(db orm.Querier) scope.Scopes {
	var ss scope.Scopes
	add := func(column, needle string) {
		if needle = strings.TrimSpace(needle); needle != "" {
			ss = ss.Append(scope.Contains(column, needle))
		}
	}
	add(query.Books(db).Col("title"), f.TitleContains)
	add(query.Authors(db).Col("name"), f.AuthorNameContains)
	add(query.Genres(db).Col("name"), f.GenreNameContains)
	return ss
}

func booksWithRelations(db orm.Querier) *orm.Query[model.Book] {
	books := query.Books(db)
	return books.LeftJoin("Author").LeftJoin("Genre").OrderBy(books.Col("id"))
}

func unavailable(op string, err error) error {
	return &model.StoreUnavailableError{Op: op, Err: err}
}

// ListBooks returns every book with its author and genre, by identity.
// A book whose author or genre is unknown or gone has a nil relation.
func ListBooks(ctx context.Context, db orm.Querier) ([]model.Book, error) {
	books, err := booksWithRelations(db).All(ctx)
	if err != nil {
		return nil, unavailable("list books", err)
	}
	return books, nil
}

// SearchBooks returns the books matching every field of f, by identity.
// No match is an empty slice, not an error.
func SearchBooks(ctx context.Context, db orm.Querier, f Filter) ([]model.Book, error) {
	books, err := booksWithRelations(db).Scopes(f.scopes(db)...).All(ctx)
	if err != nil {
		return nil, unavailable("search books", err)
	}
	return books, nil
}

// GetBook returns one book with its author, genre and order records.
func GetBook(ctx context.Context, db orm.Querier, id int64) (model.Book, error) {
	books := query.Books(db)
	b, err := books.LeftJoin("Author").LeftJoin("Genre").Preload("Orders").
		Where(books.Col("id")+" = ?", id).First(ctx)
	if errors.Is(err, orm.ErrNotFound) {
		return b, &model.NotFoundError{Kind: model.KindBook, ID: id}
	}
	if err != nil {
		return b, unavailable("get book", err)
	}
	return b, nil
}

// ListOrders returns every order record with its customer and book, by
// identity. Stock-only records have no customer; a record whose book was
// deleted under the orphan policy has no book.
func ListOrders(ctx context.Context, db orm.Querier) ([]model.OrderRecord, error) {
	orders := query.OrderRecords(db)
	items, err := orders.LeftJoin("Customer").LeftJoin("Book").OrderBy(orders.Col("id")).All(ctx)
	if err != nil {
		return nil, unavailable("list orders", err)
	}
	return items, nil
}

func ListAuthors(ctx context.Context, db orm.Querier) ([]model.Author, error) {
	authors := query.Authors(db)
	items, err := authors.OrderBy(authors.Col("id")).All(ctx)
	if err != nil {
		return nil, unavailable("list authors", err)
	}
	return items, nil
}

func ListGenres(ctx context.Context, db orm.Querier) ([]model.Genre, error) {
	genres := query.Genres(db)
	items, err := genres.OrderBy(genres.Col("id")).All(ctx)
	if err != nil {
		return nil, unavailable("list genres", err)
	}
	return items, nil
}

// ListCustomers returns every customer with their order records.
func ListCustomers(ctx context.Context, db orm.Querier) ([]model.Customer, error) {
	customers := query.Customers(db)
	items, err := customers.Preload("Orders").OrderBy(customers.Col("id")).All(ctx)
	if err != nil {
		return nil, unavailable("list customers", err)
	}
	return items, nil
}

// GetCustomer returns one customer with their order records.
func GetCustomer(ctx context.Context, db orm.Querier, id int64) (model.Customer, error) {
	customers := query.Customers(db)
	c, err := customers.Preload("Orders").Where(customers.Col("id")+" = ?", id).First(ctx)
	if errors.Is(err, orm.ErrNotFound) {
		return c, &model.NotFoundError{Kind: model.KindCustomer, ID: id}
	}
	if err != nil {
		return c, unavailable("get customer", err)
	}
	return c, nil
}
