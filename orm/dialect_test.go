package orm_test

import (
	"testing"

	"github.com/mickamy/bookstore/orm"
)

func TestDialects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		d         orm.Dialect
		ph2       string
		quoted    string
		returning string
	}{
		{"mysql", orm.MySQL, "?", "`order`", ""},
		{"postgres", orm.PostgreSQL, "$2", `"order"`, ` RETURNING "id"`},
		{"sqlite", orm.SQLite, "?", `"order"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.d.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if got := tt.d.Placeholder(2); got != tt.ph2 {
				t.Errorf("Placeholder(2) = %q, want %q", got, tt.ph2)
			}
			if got := tt.d.QuoteIdent("order"); got != tt.quoted {
				t.Errorf("QuoteIdent = %q, want %q", got, tt.quoted)
			}
			if got := tt.d.ReturningClause("id"); got != tt.returning {
				t.Errorf("ReturningClause = %q, want %q", got, tt.returning)
			}
			if got := tt.d.UseReturning(); got != (tt.returning != "") {
				t.Errorf("UseReturning() = %v", got)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want orm.Dialect
	}{
		{"mysql", orm.MySQL},
		{"postgres", orm.PostgreSQL},
		{"pgx", orm.PostgreSQL},
		{"sqlite", orm.SQLite},
		{"sqlite3", orm.SQLite},
	}
	for _, tt := range tests {
		got, err := orm.DialectFor(tt.in)
		if err != nil {
			t.Fatalf("DialectFor(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("DialectFor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := orm.DialectFor("oracle"); err == nil {
		t.Error("DialectFor(oracle): expected error")
	}
}
