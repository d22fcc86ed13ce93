package store

import "github.com/mickamy/bookstore/internal/model"

// Field is one optional value in a patch. The zero Field leaves the column
// unchanged.
type Field[V any] struct {
	Value V
	Set   bool
}

// Set returns a Field that overwrites the column with v.
func Set[V any](v V) Field[V] { return Field[V]{Value: v, Set: true} }

func (f Field[V]) apply(dst *V, cols map[string]any, column string) {
	if !f.Set {
		return
	}
	if dst != nil {
		*dst = f.Value
	}
	if cols != nil {
		cols[column] = f.Value
	}
}

type BookPatch struct {
	Title           Field[string]
	AuthorID        Field[*int64]
	GenreID         Field[*int64]
	PublicationYear Field[int]
	Price           Field[float64]
}

func (p BookPatch) Apply(v *model.Book) {
	p.Title.apply(&v.Title, nil, "")
	p.AuthorID.apply(&v.AuthorID, nil, "")
	p.GenreID.apply(&v.GenreID, nil, "")
	p.PublicationYear.apply(&v.PublicationYear, nil, "")
	p.Price.apply(&v.Price, nil, "")
	if p.AuthorID.Set {
		v.Author = nil
	}
	if p.GenreID.Set {
		v.Genre = nil
	}
}

func (p BookPatch) Columns() map[string]any {
	cols := map[string]any{}
	p.Title.apply(nil, cols, "title")
	p.AuthorID.apply(nil, cols, "author_id")
	p.GenreID.apply(nil, cols, "genre_id")
	p.PublicationYear.apply(nil, cols, "publication_year")
	p.Price.apply(nil, cols, "price")
	return cols
}

type CustomerPatch struct {
	Name  Field[string]
	Email Field[string]
	Phone Field[string]
}

func (p CustomerPatch) Apply(v *model.Customer) {
	p.Name.apply(&v.Name, nil, "")
	p.Email.apply(&v.Email, nil, "")
	p.Phone.apply(&v.Phone, nil, "")
}

func (p CustomerPatch) Columns() map[string]any {
	cols := map[string]any{}
	p.Name.apply(nil, cols, "name")
	p.Email.apply(nil, cols, "email")
	p.Phone.apply(nil, cols, "phone")
	return cols
}

// OrderRecordPatch changes the stock snapshot carried by an order record.
type OrderRecordPatch struct {
	QuantityInStock Field[int64]
}

func (p OrderRecordPatch) Apply(v *model.OrderRecord) {
	p.QuantityInStock.apply(&v.QuantityInStock, nil, "")
}

func (p OrderRecordPatch) Columns() map[string]any {
	cols := map[string]any{}
	p.QuantityInStock.apply(nil, cols, "quantity_in_stock")
	return cols
}

var (
	_ Patch[model.Book]        = BookPatch{}
	_ Patch[model.Customer]    = CustomerPatch{}
	_ Patch[model.OrderRecord] = OrderRecordPatch{}
)
