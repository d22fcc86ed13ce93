package seed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/bookstore/internal/bookstore"
	"github.com/mickamy/bookstore/internal/integrity"
	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/internal/seed"
	"github.com/mickamy/bookstore/internal/store"
)

func newService(t *testing.T) *bookstore.Service {
	t.Helper()

	s, err := store.Open(t.Context(), store.Config{Driver: "sqlite", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(t.Context()))
	return bookstore.New(s, integrity.New(integrity.DefaultPolicy(), nil), nil)
}

func TestDefaultSeedsLoadUnderStrictPolicy(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	res := seed.Load(t.Context(), svc, seed.Default())

	require.Empty(t, res.Failures)
	assert.Equal(t, map[model.Kind]int{
		model.KindGenre:       3,
		model.KindAuthor:      3,
		model.KindBook:        2,
		model.KindCustomer:    2,
		model.KindOrderRecord: 2,
	}, res.Created)

	books, err := svc.ListBooks(t.Context())
	require.NoError(t, err)
	require.Len(t, books, 2)
	require.NotNil(t, books[0].Author)
	assert.Equal(t, "F. Scott Fitzgerald", books[0].Author.Name)
	assert.Equal(t, int64(10), books[0].Stock)
	assert.Equal(t, int64(5), books[1].Stock)
}

func TestLoadCollectsFailures(t *testing.T) {
	t.Parallel()

	f, err := seed.Parse([]byte(`
genres: [Fiction]
authors:
  - name: Ann
    genre: Poetry
  - name: Bob
    genre: Fiction
books:
  - title: Lost
    author: Ann
  - title: Found
    author: Bob
    genre: Fiction
customers:
  - name: C
    email: c@example.com
orders:
  - customer: C
    book: Lost
  - customer: C
    book: Found
    order_date: 2023-13-40
  - customer: C
    book: Found
    order_date: 2023-01-05
    quantity_in_stock: 4
`))
	require.NoError(t, err)

	svc := newService(t)
	res := seed.Load(t.Context(), svc, f)

	require.Len(t, res.Failures, 4)
	assert.Equal(t, model.KindAuthor, res.Failures[0].Kind)
	assert.ErrorIs(t, res.Failures[0], model.ErrReferenceNotFound)
	assert.Equal(t, "Lost", res.Failures[1].Key)
	assert.ErrorIs(t, res.Failures[1], model.ErrReferenceNotFound)
	assert.Equal(t, "C/Lost", res.Failures[2].Key)
	assert.ErrorIs(t, res.Failures[3], model.ErrInvalidFormat)
	assert.Contains(t, res.Failures[3].Error(), "order record")

	assert.Equal(t, 1, res.Created[model.KindBook])
	assert.Equal(t, 1, res.Created[model.KindOrderRecord])

	n, err := svc.StockFor(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := seed.Parse([]byte("publishers: [Penguin]\n"))
	assert.Error(t, err)
}
