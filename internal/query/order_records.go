package query

import (
	"database/sql"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/naming"
	"github.com/mickamy/bookstore/orm"
)

// OrderRecords returns a new Query for the order_records table. The
// "Customer" and "Book" joins populate the relations from the same row.
func OrderRecords(db orm.Querier) *orm.Query[model.OrderRecord] {
	q := orm.NewQuery[model.OrderRecord](
		db, orm.ResolveTableName[model.OrderRecord]("order_records"), orderRecordsColumns, "id",
		scanOrderRecord, orderRecordColumnValuePairs, setOrderRecordPK,
	)
	q.RegisterJoin("Customer", orm.JoinConfig{
		TargetTable: orm.ResolveTableName[model.Customer]("customers"), TargetColumn: "id",
		SourceTable: orm.ResolveTableName[model.OrderRecord]("order_records"), SourceColumn: "customer_id",
		SelectColumns: customersColumns,
	})
	q.RegisterJoin("Book", orm.JoinConfig{
		TargetTable: orm.ResolveTableName[model.Book]("books"), TargetColumn: "id",
		SourceTable: orm.ResolveTableName[model.OrderRecord]("order_records"), SourceColumn: "book_id",
		SelectColumns: booksColumns,
	})
	return q
}

var orderRecordsColumns = []string{"id", "customer_id", "book_id", "order_date", "total_amount", "quantity_in_stock"}

func scanOrderRecord(rows *sql.Rows) (model.OrderRecord, error) {
	cols, _ := rows.Columns()
	var v model.OrderRecord
	var joinScanCustomerPK sql.NullInt64
	var joinScanCustomerName, joinScanCustomerEmail, joinScanCustomerPhone sql.NullString
	var joinScanBookPK sql.NullInt64
	var joinScanBookTitle sql.NullString
	var joinScanBookYear sql.NullInt64
	var joinScanBookPrice sql.NullFloat64
	var joinScanBook model.Book
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "customer_id":
			dest[i] = &v.CustomerID
		case "book_id":
			dest[i] = &v.BookID
		case "order_date":
			dest[i] = &v.OrderDate
		case "total_amount":
			dest[i] = &v.TotalAmount
		case "quantity_in_stock":
			dest[i] = &v.QuantityInStock
		case naming.JoinAlias("Customer", "id"):
			dest[i] = &joinScanCustomerPK
		case naming.JoinAlias("Customer", "name"):
			dest[i] = &joinScanCustomerName
		case naming.JoinAlias("Customer", "email"):
			dest[i] = &joinScanCustomerEmail
		case naming.JoinAlias("Customer", "phone"):
			dest[i] = &joinScanCustomerPhone
		case naming.JoinAlias("Book", "id"):
			dest[i] = &joinScanBookPK
		case naming.JoinAlias("Book", "title"):
			dest[i] = &joinScanBookTitle
		case naming.JoinAlias("Book", "author_id"):
			dest[i] = &joinScanBook.AuthorID
		case naming.JoinAlias("Book", "genre_id"):
			dest[i] = &joinScanBook.GenreID
		case naming.JoinAlias("Book", "publication_year"):
			dest[i] = &joinScanBookYear
		case naming.JoinAlias("Book", "price"):
			dest[i] = &joinScanBookPrice
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	if joinScanCustomerPK.Valid {
		v.Customer = &model.Customer{
			ID:    joinScanCustomerPK.Int64,
			Name:  joinScanCustomerName.String,
			Email: joinScanCustomerEmail.String,
			Phone: joinScanCustomerPhone.String,
		}
	}
	if joinScanBookPK.Valid {
		joinScanBook.ID = joinScanBookPK.Int64
		joinScanBook.Title = joinScanBookTitle.String
		joinScanBook.PublicationYear = int(joinScanBookYear.Int64)
		joinScanBook.Price = joinScanBookPrice.Float64
		v.Book = &joinScanBook
	}
	return v, err
}

func orderRecordColumnValuePairs(v *model.OrderRecord, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "customer_id", "book_id", "order_date", "total_amount", "quantity_in_stock"},
			[]any{v.ID, v.CustomerID, v.BookID, v.OrderDate, v.TotalAmount, v.QuantityInStock}
	}
	return []string{"customer_id", "book_id", "order_date", "total_amount", "quantity_in_stock"},
		[]any{v.CustomerID, v.BookID, v.OrderDate, v.TotalAmount, v.QuantityInStock}
}

func setOrderRecordPK(v *model.OrderRecord, id int64) {
	v.ID = id
}
