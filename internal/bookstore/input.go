package bookstore

// AuthorInput describes a new author. Genre is a free-text label; it is
// checked against the genres under the resolution policy but stored as
// text.
type AuthorInput struct {
	Name        string `json:"name" yaml:"name"`
	BirthYear   *int   `json:"birth_year,omitempty" yaml:"birth_year"`
	Nationality string `json:"nationality,omitempty" yaml:"nationality"`
	Genre       string `json:"genre,omitempty" yaml:"genre"`
}

type CustomerInput struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
}

// BookInput describes a new book. Author and genre are referred to by
// name; an empty name leaves the reference unset. A non-nil Stock records
// the initial stock of the book.
type BookInput struct {
	Title           string  `json:"title" yaml:"title"`
	AuthorName      string  `json:"author,omitempty" yaml:"author"`
	GenreName       string  `json:"genre,omitempty" yaml:"genre"`
	PublicationYear int     `json:"publication_year" yaml:"publication_year"`
	Price           float64 `json:"price" yaml:"price"`
	Stock           *int64  `json:"stock,omitempty" yaml:"stock"`
}

// BookUpdate changes a book. Nil fields keep their stored value. A
// non-nil empty AuthorName or GenreName clears the reference.
type BookUpdate struct {
	Title           *string
	AuthorName      *string
	GenreName       *string
	PublicationYear *int
	Price           *float64
	Stock           *int64
}

// OrderInput describes an order record. A record without a customer is a
// stock-only entry; it gets no order date unless Date is given. For
// customer orders an empty Date means today.
type OrderInput struct {
	CustomerID  *int64  `json:"customer_id,omitempty" yaml:"customer_id"`
	BookID      int64   `json:"book_id" yaml:"book_id"`
	Date        string  `json:"order_date,omitempty" yaml:"order_date"`
	TotalAmount float64 `json:"total_amount" yaml:"total_amount"`
	Stock       int64   `json:"quantity_in_stock" yaml:"quantity_in_stock"`
}
