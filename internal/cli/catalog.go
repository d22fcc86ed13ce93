package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mickamy/bookstore/internal/bookstore"
	"github.com/mickamy/bookstore/internal/model"
)

func newAddAuthorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-author <name>",
		Short: "Add an author",
		Example: `  bookstore add-author "F. Scott Fitzgerald" --birth-year 1896 --nationality American --genre Fiction`,
		Args: cobra.ExactArgs(1),
	}
	birthYear := cmd.Flags().String("birth-year", "", "year of birth")
	nationality := cmd.Flags().String("nationality", "", "nationality")
	genre := cmd.Flags().String("genre", "", "genre label; must name an existing genre under --resolution strict")

	cmd.RunE = withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		in := bookstore.AuthorInput{Name: args[0], Nationality: *nationality, Genre: *genre}
		if cmd.Flags().Changed("birth-year") {
			year, err := parseInt("birth_year", *birthYear)
			if err != nil {
				return err
			}
			in.BirthYear = &year
		}
		id, err := a.svc.AddAuthor(ctx, in)
		if err != nil {
			return err //nolint:wrapcheck // typed errors are described by Execute
		}
		return a.out.created(model.KindAuthor, id, in.Name)
	})
	return cmd
}

func newAddGenreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-genre <name>",
		Short: "Add a genre",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			id, err := a.svc.AddGenre(ctx, args[0])
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			return a.out.created(model.KindGenre, id, args[0])
		}),
	}
}

func newListAuthorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-authors",
		Short: "List all authors",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			authors, err := a.svc.ListAuthors(ctx)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			return a.out.authors(authors)
		}),
	}
}

func newListGenresCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-genres",
		Short: "List all genres",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			genres, err := a.svc.ListGenres(ctx)
			if err != nil {
				return err //nolint:wrapcheck // typed errors are described by Execute
			}
			return a.out.genres(genres)
		}),
	}
}
