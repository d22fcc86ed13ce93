package query

import (
	"context"
	"database/sql"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/orm"
	"github.com/mickamy/bookstore/scope"
)

// Customers returns a new Query for the customers table.
func Customers(db orm.Querier) *orm.Query[model.Customer] {
	q := orm.NewQuery[model.Customer](
		db, orm.ResolveTableName[model.Customer]("customers"), customersColumns, "id",
		scanCustomer, customerColumnValuePairs, setCustomerPK,
	)
	q.RegisterPreloader("Orders", preloadCustomerOrders)
	return q
}

var customersColumns = []string{"id", "name", "email", "phone"}

func scanCustomer(rows *sql.Rows) (model.Customer, error) {
	cols, _ := rows.Columns()
	var v model.Customer
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		case "email":
			dest[i] = &v.Email
		case "phone":
			dest[i] = &v.Phone
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	return v, err
}

func customerColumnValuePairs(v *model.Customer, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name", "email", "phone"}, []any{v.ID, v.Name, v.Email, v.Phone}
	}
	return []string{"name", "email", "phone"}, []any{v.Name, v.Email, v.Phone}
}

func setCustomerPK(v *model.Customer, id int64) {
	v.ID = id
}

func preloadCustomerOrders(ctx context.Context, db orm.Querier, results []model.Customer) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int64, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	orders := OrderRecords(db)
	related, err := orders.Scopes(scope.In(orders.Col("customer_id"), ids)).OrderBy(orders.Col("id")).All(ctx)
	if err != nil {
		return err
	}
	byFK := make(map[int64][]model.OrderRecord)
	for _, r := range related {
		if r.CustomerID != nil {
			byFK[*r.CustomerID] = append(byFK[*r.CustomerID], r)
		}
	}
	for i := range results {
		results[i].Orders = byFK[results[i].ID]
	}
	return nil
}
