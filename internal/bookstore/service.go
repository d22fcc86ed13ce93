// Package bookstore exposes one operation per bookstore use case. Every
// operation runs in its own transaction: writes go through the integrity
// engine before they reach the store, and nothing an operation staged
// survives when it fails.
package bookstore

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mickamy/bookstore/internal/integrity"
	"github.com/mickamy/bookstore/internal/inventory"
	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/store"
)

// BookView is a book with its relations and its current stock.
type BookView struct {
	model.Book
	Stock int64 `json:"stock"`
}

type Service struct {
	store  *store.Store
	engine *integrity.Engine
	logger *slog.Logger
}

func New(st *store.Store, engine *integrity.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if engine == nil {
		engine = integrity.New(integrity.DefaultPolicy(), logger)
	}
	return &Service{store: st, engine: engine, logger: logger}
}

// Policy returns the integrity policy the service writes under.
func (s *Service) Policy() integrity.Policy { return s.engine.Policy() }

func (s *Service) tx(ctx context.Context, fn func(tx *store.Tx) error) error {
	return s.store.Tx(ctx, fn) //nolint:wrapcheck // typed errors pass through
}

// AddAuthor stores the author with its name and genre label trimmed, the
// form in which books later look them up.
func (s *Service) AddAuthor(ctx context.Context, in AuthorInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Genre = strings.TrimSpace(in.Genre)
	if err := integrity.Required("name", in.Name); err != nil {
		return 0, err //nolint:wrapcheck // typed validation error
	}
	var id int64
	err := s.tx(ctx, func(tx *store.Tx) error {
		if err := s.engine.CheckGenreLabel(ctx, tx, in.Genre); err != nil {
			return err //nolint:wrapcheck // typed integrity error
		}
		a := model.Author{
			Name:        in.Name,
			BirthYear:   in.BirthYear,
			Nationality: optional(in.Nationality),
			Genre:       optional(in.Genre),
		}
		var err error
		id, err = tx.Authors().Create(ctx, &a)
		return err //nolint:wrapcheck // typed store error
	})
	if err != nil {
		return 0, err
	}
	s.logger.DebugContext(ctx, "author added", "id", id, "name", in.Name)
	return id, nil
}

func (s *Service) AddGenre(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if err := integrity.Required("name", name); err != nil {
		return 0, err //nolint:wrapcheck // typed validation error
	}
	var id int64
	err := s.tx(ctx, func(tx *store.Tx) error {
		var err error
		id, err = tx.Genres().Create(ctx, &model.Genre{Name: name})
		return err //nolint:wrapcheck // typed store error
	})
	if err != nil {
		return 0, err
	}
	s.logger.DebugContext(ctx, "genre added", "id", id, "name", name)
	return id, nil
}

func (s *Service) AddCustomer(ctx context.Context, in CustomerInput) (int64, error) {
	if err := integrity.Required("name", in.Name); err != nil {
		return 0, err //nolint:wrapcheck // typed validation error
	}
	var id int64
	err := s.tx(ctx, func(tx *store.Tx) error {
		var err error
		id, err = tx.Customers().Create(ctx, &model.Customer{Name: in.Name, Email: in.Email, Phone: in.Phone})
		return err //nolint:wrapcheck // typed store error
	})
	if err != nil {
		return 0, err
	}
	s.logger.DebugContext(ctx, "customer added", "id", id)
	return id, nil
}

// AddBook resolves the author and genre names, creates the book and, when
// a stock is given, records it as the book's first order record.
func (s *Service) AddBook(ctx context.Context, in BookInput) (int64, error) {
	if err := integrity.Required("title", in.Title); err != nil {
		return 0, err //nolint:wrapcheck // typed validation error
	}
	if in.Stock != nil {
		if err := integrity.NonNegative("stock", *in.Stock); err != nil {
			return 0, err //nolint:wrapcheck // typed validation error
		}
	}

	var id int64
	err := s.tx(ctx, func(tx *store.Tx) error {
		authorID, genreID, err := s.engine.ResolveBookReferences(ctx, tx, in.AuthorName, in.GenreName)
		if err != nil {
			return err //nolint:wrapcheck // typed integrity error
		}
		b := model.Book{
			Title:           in.Title,
			AuthorID:        authorID,
			GenreID:         genreID,
			PublicationYear: in.PublicationYear,
			Price:           in.Price,
		}
		if id, err = tx.Books().Create(ctx, &b); err != nil {
			return err //nolint:wrapcheck // typed store error
		}
		if in.Stock == nil {
			return nil
		}
		return inventory.SetInitialStock(ctx, tx, id, *in.Stock) //nolint:wrapcheck // typed store error
	})
	if err != nil {
		return 0, err
	}
	s.logger.DebugContext(ctx, "book added", "id", id, "title", in.Title)
	return id, nil
}

// UpdateBook changes the fields set in up and returns the book as stored
// afterwards, with its relations. A missing book is reported before any
// reference is resolved.
func (s *Service) UpdateBook(ctx context.Context, id int64, up BookUpdate) (BookView, error) {
	if up.Title != nil {
		if err := integrity.Required("title", *up.Title); err != nil {
			return BookView{}, err //nolint:wrapcheck // typed validation error
		}
	}
	if up.Stock != nil {
		if err := integrity.NonNegative("stock", *up.Stock); err != nil {
			return BookView{}, err //nolint:wrapcheck // typed validation error
		}
	}

	var view BookView
	err := s.tx(ctx, func(tx *store.Tx) error {
		books := tx.Books()
		if ok, err := books.Exists(ctx, id); err != nil {
			return err //nolint:wrapcheck // typed store error
		} else if !ok {
			return &model.NotFoundError{Kind: model.KindBook, ID: id}
		}

		var patch store.BookPatch
		if up.Title != nil {
			patch.Title = store.Set(*up.Title)
		}
		if up.AuthorName != nil {
			authorID, err := s.engine.ResolveAuthor(ctx, tx, *up.AuthorName)
			if err != nil {
				return err //nolint:wrapcheck // typed integrity error
			}
			patch.AuthorID = store.Set(authorID)
		}
		if up.GenreName != nil {
			genreID, err := s.engine.ResolveGenre(ctx, tx, *up.GenreName)
			if err != nil {
				return err //nolint:wrapcheck // typed integrity error
			}
			patch.GenreID = store.Set(genreID)
		}
		if up.PublicationYear != nil {
			patch.PublicationYear = store.Set(*up.PublicationYear)
		}
		if up.Price != nil {
			patch.Price = store.Set(*up.Price)
		}
		if _, err := books.Update(ctx, id, patch); err != nil {
			return err //nolint:wrapcheck // typed store error
		}
		if up.Stock != nil {
			if err := inventory.SetInitialStock(ctx, tx, id, *up.Stock); err != nil {
				return err //nolint:wrapcheck // typed store error
			}
		}

		var err error
		view, err = s.bookView(ctx, tx, id)
		return err
	})
	if err != nil {
		return BookView{}, err
	}
	s.logger.DebugContext(ctx, "book updated", "id", id)
	return view, nil
}

// UpdateCustomer changes the fields set in patch and returns the stored
// customer.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, patch store.CustomerPatch) (model.Customer, error) {
	if patch.Name.Set {
		if err := integrity.Required("name", patch.Name.Value); err != nil {
			return model.Customer{}, err //nolint:wrapcheck // typed validation error
		}
	}
	var c model.Customer
	err := s.tx(ctx, func(tx *store.Tx) error {
		var err error
		c, err = tx.Customers().Update(ctx, id, patch)
		return err //nolint:wrapcheck // typed store error
	})
	if err != nil {
		return model.Customer{}, err
	}
	s.logger.DebugContext(ctx, "customer updated", "id", id)
	return c, nil
}

// DeleteBook deletes a book under the configured cascade policy.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.delete(ctx, model.KindBook, id)
}

// DeleteCustomer deletes a customer under the configured cascade policy.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.delete(ctx, model.KindCustomer, id)
}

func (s *Service) delete(ctx context.Context, kind model.Kind, id int64) error {
	err := s.tx(ctx, func(tx *store.Tx) error {
		return s.engine.GuardDelete(ctx, tx, kind, id) //nolint:wrapcheck // typed integrity error
	})
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "deleted", "kind", kind.String(), "id", id, "cascade", string(s.engine.Policy().Cascade))
	return nil
}

// AddOrderRecord records a sale, or a stock-only entry when no customer
// is given. The date is parsed and both references are checked before
// anything is written.
func (s *Service) AddOrderRecord(ctx context.Context, in OrderInput) (int64, error) {
	if err := integrity.NonNegative("quantity_in_stock", in.Stock); err != nil {
		return 0, err //nolint:wrapcheck // typed validation error
	}

	var date *model.Date
	if in.CustomerID != nil || in.Date != "" {
		var err error
		if date, err = s.engine.ParseOrderDate(ctx, in.Date); err != nil {
			return 0, err //nolint:wrapcheck // typed integrity error
		}
	}

	var id int64
	err := s.tx(ctx, func(tx *store.Tx) error {
		if err := s.engine.CheckOrderReferences(ctx, tx, in.CustomerID, in.BookID); err != nil {
			return err //nolint:wrapcheck // typed integrity error
		}
		o := model.OrderRecord{
			CustomerID:      in.CustomerID,
			BookID:          in.BookID,
			OrderDate:       date,
			TotalAmount:     in.TotalAmount,
			QuantityInStock: in.Stock,
		}
		var err error
		id, err = tx.OrderRecords().Create(ctx, &o)
		return err //nolint:wrapcheck // typed store error
	})
	if err != nil {
		return 0, err
	}
	s.logger.DebugContext(ctx, "order record added", "id", id, "book_id", in.BookID)
	return id, nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
