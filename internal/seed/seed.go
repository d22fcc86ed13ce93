// Package seed loads a catalog described in YAML through the bookstore
// service, so seeded rows pass the same integrity checks as any other
// write. A row that fails is reported and the rest are still loaded.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mickamy/bookstore/internal/bookstore"
	"github.com/mickamy/bookstore/internal/model"
)

//go:embed seeds.yaml
var defaultSeeds []byte

// File is the seed document. Orders refer to customers and books by the
// name and title they have in the same file.
type File struct {
	Genres    []string                  `yaml:"genres"`
	Authors   []bookstore.AuthorInput   `yaml:"authors"`
	Books     []bookstore.BookInput     `yaml:"books"`
	Customers []bookstore.CustomerInput `yaml:"customers"`
	Orders    []Order                   `yaml:"orders"`
}

type Order struct {
	Customer    string  `yaml:"customer"`
	Book        string  `yaml:"book"`
	Date        string  `yaml:"order_date"`
	TotalAmount float64 `yaml:"total_amount"`
	Stock       int64   `yaml:"quantity_in_stock"`
}

// Parse decodes a seed document. Unknown keys are an error.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return &f, nil
}

// Default returns the embedded seed document.
func Default() *File {
	f, err := Parse(defaultSeeds)
	if err != nil {
		panic(err)
	}
	return f
}

// Failure is one row that could not be loaded.
type Failure struct {
	Kind model.Kind
	Key  string
	Err  error
}

func (f Failure) Error() string { return fmt.Sprintf("%s %q: %v", f.Kind, f.Key, f.Err) }

func (f Failure) Unwrap() error { return f.Err }

type Result struct {
	Created  map[model.Kind]int
	Failures []Failure
}

// Load writes f through svc in dependency order: genres, authors, books,
// customers, then orders. Every row is its own operation.
func Load(ctx context.Context, svc *bookstore.Service, f *File) Result {
	res := Result{Created: map[model.Kind]int{}}
	record := func(kind model.Kind, key string, err error) bool {
		if err != nil {
			res.Failures = append(res.Failures, Failure{Kind: kind, Key: key, Err: err})
			return false
		}
		res.Created[kind]++
		return true
	}

	for _, name := range f.Genres {
		_, err := svc.AddGenre(ctx, name)
		record(model.KindGenre, name, err)
	}
	for _, a := range f.Authors {
		_, err := svc.AddAuthor(ctx, a)
		record(model.KindAuthor, a.Name, err)
	}

	books := map[string]int64{}
	for _, b := range f.Books {
		id, err := svc.AddBook(ctx, b)
		if record(model.KindBook, b.Title, err) {
			if _, dup := books[b.Title]; !dup {
				books[b.Title] = id
			}
		}
	}

	customers := map[string]int64{}
	for _, c := range f.Customers {
		id, err := svc.AddCustomer(ctx, c)
		if record(model.KindCustomer, c.Name, err) {
			if _, dup := customers[c.Name]; !dup {
				customers[c.Name] = id
			}
		}
	}

	for _, o := range f.Orders {
		key := o.Customer + "/" + o.Book
		in, err := o.input(customers, books)
		if err == nil {
			_, err = svc.AddOrderRecord(ctx, in)
		}
		record(model.KindOrderRecord, key, err)
	}
	return res
}

func (o Order) input(customers, books map[string]int64) (bookstore.OrderInput, error) {
	in := bookstore.OrderInput{Date: o.Date, TotalAmount: o.TotalAmount, Stock: o.Stock}
	if o.Customer != "" {
		id, ok := customers[o.Customer]
		if !ok {
			return in, &model.ReferenceNotFoundError{Kind: model.KindCustomer, Key: o.Customer}
		}
		in.CustomerID = &id
	}
	id, ok := books[o.Book]
	if !ok {
		return in, &model.ReferenceNotFoundError{Kind: model.KindBook, Key: o.Book}
	}
	in.BookID = id
	return in, nil
}
