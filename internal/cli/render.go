package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mickamy/bookstore/internal/bookstore"
	"github.com/mickamy/bookstore/internal/config"
	"github.com/mickamy/bookstore/internal/model"
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: format}
}

func (p *printer) isJSON() bool { return p.format == config.OutputJSON }

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v) //nolint:wrapcheck // writer error
}

func (p *printer) table(header table.Row, rows []table.Row) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(p.w, "(0 rows)")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

// created reports the identity assigned to a new entity.
func (p *printer) created(kind model.Kind, id int64, label string) error {
	if p.isJSON() {
		return p.json(map[string]any{"kind": kind.String(), "id": id})
	}
	_, _ = fmt.Fprintf(p.w, "Added %s %q with id %d\n", kind, label, id)
	return nil
}

func (p *printer) message(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) books(books []bookstore.BookView) error {
	if p.isJSON() {
		return p.json(books)
	}
	rows := make([]table.Row, len(books))
	for i, b := range books {
		rows[i] = table.Row{b.ID, b.Title, authorName(b.Author), genreName(b.Genre), b.PublicationYear, money(b.Price), b.Stock}
	}
	p.table(table.Row{"ID", "Title", "Author", "Genre", "Year", "Price", "Stock"}, rows)
	return nil
}

func (p *printer) book(b bookstore.BookView) error {
	if p.isJSON() {
		return p.json(b)
	}
	p.table(table.Row{"Field", "Value"}, []table.Row{
		{"ID", b.ID},
		{"Title", b.Title},
		{"Author", authorName(b.Author)},
		{"Genre", genreName(b.Genre)},
		{"Year", b.PublicationYear},
		{"Price", money(b.Price)},
		{"Stock", b.Stock},
	})
	if len(b.Orders) > 0 {
		return p.orders(b.Orders)
	}
	return nil
}

func (p *printer) authors(authors []model.Author) error {
	if p.isJSON() {
		return p.json(authors)
	}
	rows := make([]table.Row, len(authors))
	for i, a := range authors {
		rows[i] = table.Row{a.ID, a.Name, optInt(a.BirthYear), optString(a.Nationality), optString(a.Genre)}
	}
	p.table(table.Row{"ID", "Name", "Birth Year", "Nationality", "Genre"}, rows)
	return nil
}

func (p *printer) genres(genres []model.Genre) error {
	if p.isJSON() {
		return p.json(genres)
	}
	rows := make([]table.Row, len(genres))
	for i, g := range genres {
		rows[i] = table.Row{g.ID, g.Name}
	}
	p.table(table.Row{"ID", "Name"}, rows)
	return nil
}

func (p *printer) customers(customers []model.Customer) error {
	if p.isJSON() {
		return p.json(customers)
	}
	rows := make([]table.Row, len(customers))
	for i, c := range customers {
		rows[i] = table.Row{c.ID, c.Name, c.Email, c.Phone, len(c.Orders)}
	}
	p.table(table.Row{"ID", "Name", "Email", "Phone", "Orders"}, rows)
	return nil
}

func (p *printer) customer(c model.Customer) error {
	if p.isJSON() {
		return p.json(c)
	}
	p.table(table.Row{"Field", "Value"}, []table.Row{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Email", c.Email},
		{"Phone", c.Phone},
	})
	if len(c.Orders) > 0 {
		return p.orders(c.Orders)
	}
	return nil
}

func (p *printer) orders(orders []model.OrderRecord) error {
	if p.isJSON() {
		return p.json(orders)
	}
	rows := make([]table.Row, len(orders))
	for i, o := range orders {
		customer := "-"
		if o.Customer != nil {
			customer = o.Customer.Name
		} else if o.CustomerID != nil {
			customer = "#" + strconv.FormatInt(*o.CustomerID, 10)
		}
		book := "#" + strconv.FormatInt(o.BookID, 10)
		if o.Book != nil {
			book = o.Book.Title
		}
		date := "-"
		if o.OrderDate != nil {
			date = o.OrderDate.String()
		}
		rows[i] = table.Row{o.ID, customer, book, date, money(o.TotalAmount), o.QuantityInStock}
	}
	p.table(table.Row{"ID", "Customer", "Book", "Date", "Total", "Stock"}, rows)
	return nil
}

func authorName(a *model.Author) string {
	if a == nil {
		return "Unknown Author"
	}
	return a.Name
}

func genreName(g *model.Genre) string {
	if g == nil {
		return "Unknown Genre"
	}
	return g.Name
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func optString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func optInt(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
