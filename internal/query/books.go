package query

import (
	"context"
	"database/sql"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/naming"
	"github.com/mickamy/bookstore/orm"
	"github.com/mickamy/bookstore/scope"
)

// Books returns a new Query for the books table. The "Author" and "Genre"
// joins populate Book.Author and Book.Genre from the same row.
func Books(db orm.Querier) *orm.Query[model.Book] {
	q := orm.NewQuery[model.Book](
		db, orm.ResolveTableName[model.Book]("books"), booksColumns, "id",
		scanBook, bookColumnValuePairs, setBookPK,
	)
	q.RegisterJoin("Author", orm.JoinConfig{
		TargetTable: orm.ResolveTableName[model.Author]("authors"), TargetColumn: "id",
		SourceTable: orm.ResolveTableName[model.Book]("books"), SourceColumn: "author_id",
		SelectColumns: authorsColumns,
	})
	q.RegisterJoin("Genre", orm.JoinConfig{
		TargetTable: orm.ResolveTableName[model.Genre]("genres"), TargetColumn: "id",
		SourceTable: orm.ResolveTableName[model.Book]("books"), SourceColumn: "genre_id",
		SelectColumns: genresColumns,
	})
	q.RegisterPreloader("Orders", preloadBookOrders)
	return q
}

var booksColumns = []string{"id", "title", "author_id", "genre_id", "publication_year", "price"}

func scanBook(rows *sql.Rows) (model.Book, error) {
	cols, _ := rows.Columns()
	var v model.Book
	var joinScanAuthorPK sql.NullInt64
	var joinScanAuthorName sql.NullString
	var joinScanAuthor model.Author
	var joinScanGenrePK sql.NullInt64
	var joinScanGenreName sql.NullString
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "title":
			dest[i] = &v.Title
		case "author_id":
			dest[i] = &v.AuthorID
		case "genre_id":
			dest[i] = &v.GenreID
		case "publication_year":
			dest[i] = &v.PublicationYear
		case "price":
			dest[i] = &v.Price
		case naming.JoinAlias("Author", "id"):
			dest[i] = &joinScanAuthorPK
		case naming.JoinAlias("Author", "name"):
			dest[i] = &joinScanAuthorName
		case naming.JoinAlias("Author", "birth_year"):
			dest[i] = &joinScanAuthor.BirthYear
		case naming.JoinAlias("Author", "nationality"):
			dest[i] = &joinScanAuthor.Nationality
		case naming.JoinAlias("Author", "genre"):
			dest[i] = &joinScanAuthor.Genre
		case naming.JoinAlias("Genre", "id"):
			dest[i] = &joinScanGenrePK
		case naming.JoinAlias("Genre", "name"):
			dest[i] = &joinScanGenreName
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	if joinScanAuthorPK.Valid {
		joinScanAuthor.ID = joinScanAuthorPK.Int64
		joinScanAuthor.Name = joinScanAuthorName.String
		v.Author = &joinScanAuthor
	}
	if joinScanGenrePK.Valid {
		v.Genre = &model.Genre{ID: joinScanGenrePK.Int64, Name: joinScanGenreName.String}
	}
	return v, err
}

func bookColumnValuePairs(v *model.Book, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "title", "author_id", "genre_id", "publication_year", "price"},
			[]any{v.ID, v.Title, v.AuthorID, v.GenreID, v.PublicationYear, v.Price}
	}
	return []string{"title", "author_id", "genre_id", "publication_year", "price"},
		[]any{v.Title, v.AuthorID, v.GenreID, v.PublicationYear, v.Price}
}

func setBookPK(v *model.Book, id int64) {
	v.ID = id
}

func preloadBookOrders(ctx context.Context, db orm.Querier, results []model.Book) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int64, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	orders := OrderRecords(db)
	related, err := orders.Scopes(scope.In(orders.Col("book_id"), ids)).OrderBy(orders.Col("id")).All(ctx)
	if err != nil {
		return err
	}
	byFK := make(map[int64][]model.OrderRecord)
	for _, r := range related {
		byFK[r.BookID] = append(byFK[r.BookID], r)
	}
	for i := range results {
		results[i].Orders = byFK[results[i].ID]
	}
	return nil
}
