// Package integrity validates and resolves cross-entity references before
// anything is written, and applies the delete policy for books and
// customers. Every mutation of the bookstore passes through an Engine.
package integrity

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/store"
	"github.com/mickamy/bookstore/orm"
	"github.com/mickamy/bookstore/scope"
)

type Engine struct {
	policy Policy
	logger *slog.Logger
}

// New returns an Engine applying p. Empty policy fields take their
// defaults.
func New(p Policy, logger *slog.Logger) *Engine {
	if p.Resolution == "" {
		p.Resolution = Strict
	}
	if p.Cascade == "" {
		p.Cascade = Orphan
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{policy: p, logger: logger}
}

func (e *Engine) Policy() Policy { return e.policy }

// ResolveAuthor turns an author name into an identity. An empty name
// resolves to nil, the unknown author. When several authors share the
// name the earliest one wins.
func (e *Engine) ResolveAuthor(ctx context.Context, tx *store.Tx, name string) (*int64, error) {
	return resolve(ctx, e, tx.Authors(), model.KindAuthor, name,
		func(n string) *model.Author { return &model.Author{Name: n} },
		func(a model.Author) int64 { return a.ID },
	)
}

// ResolveGenre turns a genre name into an identity under the same rules
// as ResolveAuthor.
func (e *Engine) ResolveGenre(ctx context.Context, tx *store.Tx, name string) (*int64, error) {
	return resolve(ctx, e, tx.Genres(), model.KindGenre, name,
		func(n string) *model.Genre { return &model.Genre{Name: n} },
		func(g model.Genre) int64 { return g.ID },
	)
}

// ResolveBookReferences resolves the author and genre names of a book
// write, both under the same policy. The caller's transaction discards an
// auto-created author when the genre then fails.
func (e *Engine) ResolveBookReferences(ctx context.Context, tx *store.Tx, authorName, genreName string) (authorID, genreID *int64, err error) {
	if authorID, err = e.ResolveAuthor(ctx, tx, authorName); err != nil {
		return nil, nil, err
	}
	if genreID, err = e.ResolveGenre(ctx, tx, genreName); err != nil {
		return nil, nil, err
	}
	return authorID, genreID, nil
}

func resolve[T any](
	ctx context.Context,
	e *Engine,
	table *store.Table[T],
	kind model.Kind,
	name string,
	newEntity func(string) *T,
	id func(T) int64,
) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	found, ok, err := table.FindFirst(ctx, scope.Where(table.Col("name")+" = ?", name))
	if err != nil {
		return nil, err //nolint:wrapcheck // typed store errors
	}
	if ok {
		return model.Ptr(id(found)), nil
	}
	if e.policy.Resolution != AutoCreate {
		return nil, &model.ReferenceNotFoundError{Kind: kind, Key: name}
	}
	created, err := table.Create(ctx, newEntity(name))
	if err != nil {
		return nil, err //nolint:wrapcheck // typed store errors
	}
	e.logger.InfoContext(ctx, "created missing reference", "kind", kind.String(), "name", name, "id", created)
	return &created, nil
}

// CheckGenreLabel applies the resolution policy to the genre label an
// author carries. The label is stored as text; only its existence is
// checked (or ensured).
func (e *Engine) CheckGenreLabel(ctx context.Context, tx *store.Tx, label string) error {
	_, err := e.ResolveGenre(ctx, tx, label)
	return err
}

// CheckOrderReferences verifies that the customer (when set) and the book
// of an order record exist.
func (e *Engine) CheckOrderReferences(ctx context.Context, tx *store.Tx, customerID *int64, bookID int64) error {
	if customerID != nil {
		ok, err := tx.Customers().Exists(ctx, *customerID)
		if err != nil {
			return err //nolint:wrapcheck // typed store errors
		}
		if !ok {
			return &model.ReferenceNotFoundError{Kind: model.KindCustomer, Key: strconv.FormatInt(*customerID, 10)}
		}
	}
	ok, err := tx.Books().Exists(ctx, bookID)
	if err != nil {
		return err //nolint:wrapcheck // typed store errors
	}
	if !ok {
		return &model.ReferenceNotFoundError{Kind: model.KindBook, Key: strconv.FormatInt(bookID, 10)}
	}
	return nil
}

// ParseOrderDate parses an order date given as YYYY-MM-DD. Empty text
// means today according to the clock carried by ctx.
func (e *Engine) ParseOrderDate(ctx context.Context, text string) (*model.Date, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		d := model.NewDate(orm.Now(ctx))
		return &d, nil
	}
	d, err := model.ParseDate(text)
	if err != nil {
		return nil, &model.InvalidFormatError{Field: "order_date", Value: text}
	}
	return &d, nil
}

// GuardDelete deletes a book or customer under the cascade policy. A
// missing target is a NotFoundError and changes nothing.
func (e *Engine) GuardDelete(ctx context.Context, tx *store.Tx, kind model.Kind, id int64) error {
	var (
		exists bool
		err    error
		fk     string
	)
	switch kind {
	case model.KindBook:
		exists, err = tx.Books().Exists(ctx, id)
		fk = "book_id"
	case model.KindCustomer:
		exists, err = tx.Customers().Exists(ctx, id)
		fk = "customer_id"
	default:
		return fmt.Errorf("integrity: delete of %s is not supported", kind)
	}
	if err != nil {
		return err //nolint:wrapcheck // typed store errors
	}
	if !exists {
		return &model.NotFoundError{Kind: kind, ID: id}
	}

	orders := tx.OrderRecords()
	dependents := scope.Where(orders.Col(fk)+" = ?", id)
	switch e.policy.Cascade {
	case Refuse:
		n, err := orders.Count(ctx, dependents)
		if err != nil {
			return err //nolint:wrapcheck // typed store errors
		}
		if n > 0 {
			return &model.HasDependentsError{Kind: kind, ID: id, Dependents: n}
		}
	case CascadeDelete:
		n, err := orders.DeleteWhere(ctx, dependents)
		if err != nil {
			return err //nolint:wrapcheck // typed store errors
		}
		if n > 0 {
			e.logger.InfoContext(ctx, "deleted dependent order records", "kind", kind.String(), "id", id, "count", n)
		}
	}

	if kind == model.KindBook {
		return tx.Books().Delete(ctx, id) //nolint:wrapcheck // typed store errors
	}
	return tx.Customers().Delete(ctx, id) //nolint:wrapcheck // typed store errors
}

// Required rejects empty or blank text fields.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &model.ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// NonNegative rejects negative quantities.
func NonNegative(field string, v int64) error {
	if v < 0 {
		return &model.ValidationError{Field: field, Reason: "must be at least 0"}
	}
	return nil
}
