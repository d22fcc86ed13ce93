package store

import (
	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/query"
	"github.com/mickamy/bookstore/orm"
)

// Tx is the transactional scope handed to Store.Tx callbacks. It is only
// valid until the callback returns.
type Tx struct {
	q orm.Querier
}

// Querier exposes the transaction to read paths that build their own
// queries, so they observe the same snapshot as the writes.
func (tx *Tx) Querier() orm.Querier { return tx.q }

func (tx *Tx) Authors() *Table[model.Author] {
	return &Table[model.Author]{
		kind: model.KindAuthor, q: tx.q, newQuery: query.Authors,
		id: func(v *model.Author) int64 { return v.ID },
	}
}

func (tx *Tx) Genres() *Table[model.Genre] {
	return &Table[model.Genre]{
		kind: model.KindGenre, q: tx.q, newQuery: query.Genres,
		id: func(v *model.Genre) int64 { return v.ID },
	}
}

func (tx *Tx) Books() *Table[model.Book] {
	return &Table[model.Book]{
		kind: model.KindBook, q: tx.q, newQuery: query.Books,
		id: func(v *model.Book) int64 { return v.ID },
	}
}

func (tx *Tx) Customers() *Table[model.Customer] {
	return &Table[model.Customer]{
		kind: model.KindCustomer, q: tx.q, newQuery: query.Customers,
		id: func(v *model.Customer) int64 { return v.ID },
	}
}

func (tx *Tx) OrderRecords() *Table[model.OrderRecord] {
	return &Table[model.OrderRecord]{
		kind: model.KindOrderRecord, q: tx.q, newQuery: query.OrderRecords,
		id: func(v *model.OrderRecord) int64 { return v.ID },
	}
}
