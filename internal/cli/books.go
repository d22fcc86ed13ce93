package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mickamy/bookstore/internal/bookstore"
	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/search"
)

func newAddBookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-book <title> <author> <genre> <publication-year> <price>",
		Short: "Add a book",
		Long: `Add a book by the name of its author and genre. An empty name ("") leaves
the reference unset. --stock records the initial stock as the book's first
order record.`,
		Example: `  bookstore add-book "The Great Gatsby" "F. Scott Fitzgerald" Fiction 1925 10.99 --stock 12`,
		Args:    cobra.ExactArgs(5),
	}
	stock := cmd.Flags().Int64("stock", 0, "initial stock")

	cmd.RunE = withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		year, err := parseInt("publication_year", args[3])
		if err != nil {
			return err
		}
		price, err := parseFloat("price", args[4])
		if err != nil {
			return err
		}
		in := bookstore.BookInput{
			Title:           args[0],
			AuthorName:      args[1],
			GenreName:       args[2],
			PublicationYear: year,
			Price:           price,
		}
		if cmd.Flags().Changed("stock") {
			in.Stock = stock
		}
		id, err := a.svc.AddBook(ctx, in)
		if err != nil {
			return err //nolint:wrapcheck // typed errors are described by Execute
		}
		return a.out.created(model.KindBook, id, in.Title)
	})
	return cmd
}

func newUpdateBookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-book <id>",
		Short: "Change fields of a book",
		Long: `Change the fields given as flags; the others keep their value. --author ""
or --genre "" clears the reference.`,
		Example: `  bookstore update-book 1 --price 12.50 --stock 3`,
		Args:    cobra.ExactArgs(1),
	}
	f := cmd.Flags()
	title := f.String("title", "", "new title")
	author := f.String("author", "", "new author name")
	genre := f.String("genre", "", "new genre name")
	year := f.String("year", "", "new publication year")
	price := f.String("price", "", "new price")
	stock := f.Int64("stock", 0, "new stock")

	cmd.RunE = withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID("id", args[0])
		if err != nil {
			return err
		}
		var up bookstore.BookUpdate
		changed := cmd.Flags().Changed
		if changed("title") {
			up.Title = title
		}
		if changed("author") {
			up.AuthorName = author
		}
		if changed("genre") {
			up.GenreName = genre
		}
		if changed("year") {
			n, err := parseInt("publication_year", *year)
			if err != nil {
				return err
			}
			up.PublicationYear = &n
		}
		if changed("price") {
			p, err := parseFloat("price", *price)
			if err != nil {
				return err
			}
			up.Price = &p
		}
		if changed("stock") {
			up.Stock = stock
		}

		b, err := a.svc.UpdateBook(ctx, id, up)
		if err != nil {
			return err //nolint:wrapcheck // typed errors are described by Execute
		}
		return a.out.book(b)
	})
	return cmd
}

func newListBooksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-books",
		Short: "List all books with author, genre and stock",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			books, err := a.svc.ListBooks(ctx)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			return a.out.books(books)
		}),
	}
}

func newSearchBooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search-books",
		Short: "Search books by title, author or genre",
		Long: `Every given filter must match. Matching is a case-insensitive substring
match; % and _ are matched literally.`,
		Example: `  bookstore search-books --title gatsby
  bookstore search-books --author fitz --genre fiction`,
		Args: cobra.NoArgs,
	}
	var f search.Filter
	cmd.Flags().StringVar(&f.TitleContains, "title", "", "title contains")
	cmd.Flags().StringVar(&f.AuthorNameContains, "author", "", "author name contains")
	cmd.Flags().StringVar(&f.GenreNameContains, "genre", "", "genre name contains")

	cmd.RunE = withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
		books, err := a.svc.SearchBooks(ctx, f)
		if err != nil {
			return err //nolint:wrapcheck // typed errors are described by Execute
		}
		return a.out.books(books)
	})
	return cmd
}

func newShowBookCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show-book <id>",
		Short: "Show a book with its order records",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			b, err := a.svc.GetBook(ctx, id)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			return a.out.book(b)
		}),
	}
}

func newStockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stock <book-id>",
		Short: "Show the stock of a book",
		Long:  `The stock of a book is the quantity carried by its first order record, or 0.`,
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			id, err := parseID("book_id", args[0])
			if err != nil {
				return err
			}
			n, err := a.svc.StockFor(ctx, id)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			if a.out.isJSON() {
				return a.out.json(map[string]int64{"book_id": id, "stock": n})
			}
			a.out.message("%d", n)
			return nil
		}),
	}
}

func newDeleteCommand(use string, kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: "Delete a " + kind.String(),
		Long: `Delete a ` + kind.String() + `. Its order records are handled by --cascade:
orphan keeps them, cascade deletes them, refuse fails while any remain.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			if kind == model.KindBook {
				err = a.svc.DeleteBook(ctx, id)
			} else {
				err = a.svc.DeleteCustomer(ctx, id)
			}
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			if a.out.isJSON() {
				return a.out.json(map[string]any{"kind": kind.String(), "id": id, "deleted": true})
			}
			a.out.message("Deleted %s %d", kind, id)
			return nil
		}),
	}
}
