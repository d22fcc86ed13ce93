package query

import (
	"context"
	"database/sql"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/orm"
	"github.com/mickamy/bookstore/scope"
)

// Authors returns a new Query for the authors table.
func Authors(db orm.Querier) *orm.Query[model.Author] {
	q := orm.NewQuery[model.Author](
		db, orm.ResolveTableName[model.Author]("authors"), authorsColumns, "id",
		scanAuthor, authorColumnValuePairs, setAuthorPK,
	)
	q.RegisterPreloader("Books", preloadAuthorBooks)
	return q
}

var authorsColumns = []string{"id", "name", "birth_year", "nationality", "genre"}

func scanAuthor(rows *sql.Rows) (model.Author, error) {
	cols, _ := rows.Columns()
	var v model.Author
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		case "birth_year":
			dest[i] = &v.BirthYear
		case "nationality":
			dest[i] = &v.Nationality
		case "genre":
			dest[i] = &v.Genre
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	return v, err
}

func authorColumnValuePairs(v *model.Author, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name", "birth_year", "nationality", "genre"},
			[]any{v.ID, v.Name, v.BirthYear, v.Nationality, v.Genre}
	}
	return []string{"name", "birth_year", "nationality", "genre"},
		[]any{v.Name, v.BirthYear, v.Nationality, v.Genre}
}

func setAuthorPK(v *model.Author, id int64) {
	v.ID = id
}

func preloadAuthorBooks(ctx context.Context, db orm.Querier, results []model.Author) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int64, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	books := Books(db)
	related, err := books.Scopes(scope.In(books.Col("author_id"), ids)).OrderBy(books.Col("id")).All(ctx)
	if err != nil {
		return err
	}
	byFK := make(map[int64][]model.Book)
	for _, r := range related {
		if r.AuthorID != nil {
			byFK[*r.AuthorID] = append(byFK[*r.AuthorID], r)
		}
	}
	for i := range results {
		results[i].Books = byFK[results[i].ID]
	}
	return nil
}
