package query

import (
	"context"
	"database/sql"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/orm"
	"github.com/mickamy/bookstore/scope"
)

// Genres returns a new Query for the genres table.
func Genres(db orm.Querier) *orm.Query[model.Genre] {
	q := orm.NewQuery[model.Genre](
		db, orm.ResolveTableName[model.Genre]("genres"), genresColumns, "id",
		scanGenre, genreColumnValuePairs, setGenrePK,
	)
	q.RegisterPreloader("Books", preloadGenreBooks)
	return q
}

var genresColumns = []string{"id", "name"}

func scanGenre(rows *sql.Rows) (model.Genre, error) {
	cols, _ := rows.Columns()
	var v model.Genre
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	return v, err
}

func genreColumnValuePairs(v *model.Genre, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name"}, []any{v.ID, v.Name}
	}
	return []string{"name"}, []any{v.Name}
}

func setGenrePK(v *model.Genre, id int64) {
	v.ID = id
}

func preloadGenreBooks(ctx context.Context, db orm.Querier, results []model.Genre) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int64, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	books := Books(db)
	related, err := books.Scopes(scope.In(books.Col("genre_id"), ids)).OrderBy(books.Col("id")).All(ctx)
	if err != nil {
		return err
	}
	byFK := make(map[int64][]model.Book)
	for _, r := range related {
		if r.GenreID != nil {
			byFK[*r.GenreID] = append(byFK[*r.GenreID], r)
		}
	}
	for i := range results {
		results[i].Books = byFK[results[i].ID]
	}
	return nil
}
