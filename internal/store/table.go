package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/orm"
	"github.com/mickamy/bookstore/scope"
)

// Patch describes a partial update of a T. Columns lists only the columns
// that change; Apply sets the same fields on an in-memory copy so the
// result can be validated before it is written.
type Patch[T any] interface {
	Apply(v *T)
	Columns() map[string]any
}

// Table is the store's view of one entity kind inside a transaction.
type Table[T any] struct {
	kind     model.Kind
	q        orm.Querier
	newQuery func(orm.Querier) *orm.Query[T]
	id       func(*T) int64
}

func (t *Table[T]) query() *orm.Query[T] { return t.newQuery(t.q) }

func (t *Table[T]) byID(id int64) *orm.Query[T] {
	q := t.query()
	return q.Where(q.Col(q.PK())+" = ?", id)
}

func (t *Table[T]) unavailable(op string, err error) error {
	return &model.StoreUnavailableError{Op: op + " " + t.kind.String(), Err: err}
}

// Create validates v, inserts it and returns the assigned identity, which
// is also set on v.
func (t *Table[T]) Create(ctx context.Context, v *T) (int64, error) {
	if err := model.Validate(v); err != nil {
		return 0, err //nolint:wrapcheck // typed validation errors
	}
	if err := t.query().Create(ctx, v); err != nil {
		return 0, t.unavailable("insert", err)
	}
	return t.id(v), nil
}

// Get returns the entity with the given identity or a NotFoundError.
func (t *Table[T]) Get(ctx context.Context, id int64) (T, error) {
	v, err := t.byID(id).First(ctx)
	if errors.Is(err, orm.ErrNotFound) {
		return v, &model.NotFoundError{Kind: t.kind, ID: id}
	}
	if err != nil {
		return v, t.unavailable("get", err)
	}
	return v, nil
}

// Exists reports whether an entity with the given identity exists.
func (t *Table[T]) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := t.byID(id).Exists(ctx)
	if err != nil {
		return false, t.unavailable("lookup", err)
	}
	return ok, nil
}

// Update applies patch to the entity with the given identity. Fields the
// patch does not set keep their stored value. The patched entity is
// validated before anything is written.
func (t *Table[T]) Update(ctx context.Context, id int64, patch Patch[T]) (T, error) {
	current, err := t.Get(ctx, id)
	if err != nil {
		return current, err
	}
	patch.Apply(&current)
	if err := model.Validate(&current); err != nil {
		return current, err //nolint:wrapcheck // typed validation errors
	}
	cols := patch.Columns()
	if len(cols) == 0 {
		return current, nil
	}
	if _, err := t.byID(id).UpdateColumns(ctx, cols); err != nil {
		return current, t.unavailable("update", err)
	}
	return current, nil
}

// Delete removes the entity with the given identity. A missing entity is
// a NotFoundError, not a silent success.
func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	n, err := t.byID(id).Delete(ctx)
	if err != nil {
		return t.unavailable("delete", err)
	}
	if n == 0 {
		return &model.NotFoundError{Kind: t.kind, ID: id}
	}
	return nil
}

// DeleteWhere removes every row matching scopes and returns how many went.
// At least one scope must restrict the rows.
func (t *Table[T]) DeleteWhere(ctx context.Context, scopes ...scope.Scope) (int64, error) {
	if len(scopes) == 0 {
		return 0, fmt.Errorf("delete %s: %w", t.kind, orm.ErrUnsafeWrite)
	}
	n, err := t.query().Scopes(scopes...).Delete(ctx)
	if err != nil {
		return 0, t.unavailable("delete", err)
	}
	return n, nil
}

// List returns the rows matching scopes in insertion order. Scopes that
// order the rows take precedence; identity breaks ties.
func (t *Table[T]) List(ctx context.Context, scopes ...scope.Scope) ([]T, error) {
	q := t.query()
	items, err := q.Scopes(scopes...).OrderBy(q.Col(q.PK())).All(ctx)
	if err != nil {
		return nil, t.unavailable("list", err)
	}
	return items, nil
}

// FindFirst returns the earliest inserted row matching scopes. The bool
// is false when nothing matches.
func (t *Table[T]) FindFirst(ctx context.Context, scopes ...scope.Scope) (T, bool, error) {
	q := t.query()
	v, err := q.Scopes(scopes...).OrderBy(q.Col(q.PK())).First(ctx)
	if errors.Is(err, orm.ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, t.unavailable("find", err)
	}
	return v, true, nil
}

// Count returns the number of rows matching scopes.
func (t *Table[T]) Count(ctx context.Context, scopes ...scope.Scope) (int64, error) {
	n, err := t.query().Scopes(scopes...).Count(ctx)
	if err != nil {
		return 0, t.unavailable("count", err)
	}
	return n, nil
}

// Col returns the qualified column name for use in scopes.
func (t *Table[T]) Col(column string) string { return t.query().Col(column) }
