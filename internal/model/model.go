// Package model defines the bookstore entities and the errors raised
// while reading and writing them.
package model

// Author is a writer. Name is the natural lookup key used when a book
// refers to its author by name; it is not unique.
type Author struct {
	ID          int64   `db:"id,primaryKey" json:"id"`
	Name        string  `db:"name" json:"name" validate:"required,max=255"`
	BirthYear   *int    `db:"birth_year" json:"birth_year,omitempty" validate:"omitempty,gte=0,lte=9999"`
	Nationality *string `db:"nationality" json:"nationality,omitempty" validate:"omitempty,max=255"`
	Genre       *string `db:"genre" json:"genre,omitempty" validate:"omitempty,max=255"`

	Books []Book `db:"-" json:"books,omitempty" validate:"-" rel:"has_many,foreign_key:author_id"`
}

type Genre struct {
	ID   int64  `db:"id,primaryKey" json:"id"`
	Name string `db:"name" json:"name" validate:"required,max=255"`

	Books []Book `db:"-" json:"books,omitempty" validate:"-" rel:"has_many,foreign_key:genre_id"`
}

// Book references at most one Author and one Genre. A nil reference means
// the author or genre is unknown.
type Book struct {
	ID              int64   `db:"id,primaryKey" json:"id"`
	Title           string  `db:"title" json:"title" validate:"required,max=255"`
	AuthorID        *int64  `db:"author_id" json:"author_id,omitempty"`
	GenreID         *int64  `db:"genre_id" json:"genre_id,omitempty"`
	PublicationYear int     `db:"publication_year" json:"publication_year" validate:"gte=0,lte=9999"`
	Price           float64 `db:"price" json:"price" validate:"gte=0"`

	Author *Author       `db:"-" json:"author,omitempty" validate:"-" rel:"belongs_to,foreign_key:author_id"`
	Genre  *Genre        `db:"-" json:"genre,omitempty" validate:"-" rel:"belongs_to,foreign_key:genre_id"`
	Orders []OrderRecord `db:"-" json:"orders,omitempty" validate:"-" rel:"has_many,foreign_key:book_id"`
}

// Customer carries contact details. Email is not unique.
type Customer struct {
	ID    int64  `db:"id,primaryKey" json:"id"`
	Name  string `db:"name" json:"name" validate:"required,max=255"`
	Email string `db:"email" json:"email" validate:"omitempty,email,max=255"`
	Phone string `db:"phone" json:"phone" validate:"max=64"`

	Orders []OrderRecord `db:"-" json:"orders,omitempty" validate:"-" rel:"has_many,foreign_key:customer_id"`
}

// OrderRecord is both a sale and an inventory entry. Stock-only records
// have no customer and no order date.
type OrderRecord struct {
	ID              int64   `db:"id,primaryKey" json:"id"`
	CustomerID      *int64  `db:"customer_id" json:"customer_id,omitempty"`
	BookID          int64   `db:"book_id" json:"book_id" validate:"gt=0"`
	OrderDate       *Date   `db:"order_date" json:"order_date,omitempty"`
	TotalAmount     float64 `db:"total_amount" json:"total_amount" validate:"gte=0"`
	QuantityInStock int64   `db:"quantity_in_stock" json:"quantity_in_stock" validate:"gte=0"`

	Customer *Customer `db:"-" json:"customer,omitempty" validate:"-" rel:"belongs_to,foreign_key:customer_id"`
	Book     *Book     `db:"-" json:"book,omitempty" validate:"-" rel:"belongs_to,foreign_key:book_id"`
}

// IsStockOnly reports whether the record only carries a stock snapshot.
func (o OrderRecord) IsStockOnly() bool { return o.CustomerID == nil }

// Kind names an entity kind in errors and log attributes.
type Kind string

const (
	KindAuthor      Kind = "author"
	KindGenre       Kind = "genre"
	KindBook        Kind = "book"
	KindCustomer    Kind = "customer"
	KindOrderRecord Kind = "order record"
)

func (k Kind) String() string { return string(k) }

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
