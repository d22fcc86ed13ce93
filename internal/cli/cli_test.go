package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/bookstore/internal/model"
)

type result struct {
	out    string
	errOut string
	err    error
}

// execute runs one command line against the database at dsn, the way a
// separate process invocation would.
func execute(t *testing.T, dsn string, args ...string) result {
	t.Helper()

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--dsn", dsn))
	err := root.ExecuteContext(t.Context())
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func mustExecute(t *testing.T, dsn string, args ...string) string {
	t.Helper()
	r := execute(t, dsn, args...)
	require.NoError(t, r.err, "%v: stderr=%s", args, r.errOut)
	return r.out
}

func tempDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bookstore.db")
}

func TestCatalogWorkflow(t *testing.T) {
	t.Parallel()

	dsn := tempDSN(t)
	assert.Contains(t, mustExecute(t, dsn, "add-genre", "Fiction"), `Added genre "Fiction" with id 1`)
	mustExecute(t, dsn, "add-author", "F. Scott Fitzgerald", "--birth-year", "1896", "--nationality", "American", "--genre", "Fiction")
	assert.Contains(t,
		mustExecute(t, dsn, "add-book", "The Great Gatsby", "F. Scott Fitzgerald", "Fiction", "1925", "10.99", "--stock", "12"),
		"with id 1")
	mustExecute(t, dsn, "add-book", "Anonymous Tales", "", "", "1900", "3")

	out := mustExecute(t, dsn, "list-books")
	assert.Contains(t, out, "The Great Gatsby")
	assert.Contains(t, out, "F. Scott Fitzgerald")
	assert.Contains(t, out, "10.99")
	assert.Contains(t, out, "Unknown Author")
	assert.Less(t, strings.Index(out, "The Great Gatsby"), strings.Index(out, "Anonymous Tales"))

	out = mustExecute(t, dsn, "search-books", "--title", "GATSBY")
	assert.Contains(t, out, "The Great Gatsby")
	assert.NotContains(t, out, "Anonymous Tales")

	assert.Equal(t, "(0 rows)\n", mustExecute(t, dsn, "search-books", "--genre", "poetry"))
	assert.Equal(t, "12\n", mustExecute(t, dsn, "stock", "1"))
	assert.Equal(t, "0\n", mustExecute(t, dsn, "stock", "2"))

	out = mustExecute(t, dsn, "list-authors")
	assert.Contains(t, out, "1896")
	assert.Contains(t, out, "American")
}

func TestOrderWorkflow(t *testing.T) {
	t.Parallel()

	dsn := tempDSN(t)
	mustExecute(t, dsn, "add-book", "Book 1", "", "", "2000", "20")
	mustExecute(t, dsn, "add-customer", "Customer 1", "customer1@example.com", "123-456-7890")
	mustExecute(t, dsn, "add-order", "1", "--customer", "1", "--date", "2023-01-05", "--total", "20", "--stock", "10")
	mustExecute(t, dsn, "add-order", "1", "--stock", "3")

	out := mustExecute(t, dsn, "list-orders")
	assert.Contains(t, out, "Customer 1")
	assert.Contains(t, out, "2023-01-05")
	assert.Contains(t, out, "Book 1")

	assert.Equal(t, "10\n", mustExecute(t, dsn, "stock", "1"), "first record wins")

	out = mustExecute(t, dsn, "update-customer", "1", "--email", "new@example.com")
	assert.Contains(t, out, "new@example.com")
	assert.Contains(t, out, "123-456-7890")

	out = mustExecute(t, dsn, "show-customer", "1")
	assert.Contains(t, out, "2023-01-05")

	out = mustExecute(t, dsn, "update-book", "1", "--title", "Book One", "--stock", "7")
	assert.Contains(t, out, "Book One")
	assert.Equal(t, "7\n", mustExecute(t, dsn, "stock", "1"))
}

func TestDeleteWithCascadePolicies(t *testing.T) {
	t.Parallel()

	dsn := tempDSN(t)
	mustExecute(t, dsn, "add-book", "Book 1", "", "", "2000", "20", "--stock", "5")

	r := execute(t, dsn, "delete-book", "1", "--cascade", "refuse")
	require.Error(t, r.err)
	assert.Equal(t, exitHasDependents, exitCode(r.err))
	assert.Contains(t, describe(r.err), "still has 1 order record(s)")

	assert.Contains(t, mustExecute(t, dsn, "delete-book", "1", "--cascade", "cascade"), "Deleted book 1")
	assert.Equal(t, "(0 rows)\n", mustExecute(t, dsn, "list-orders"))

	r = execute(t, dsn, "delete-book", "1")
	require.Error(t, r.err)
	assert.Equal(t, exitNotFound, exitCode(r.err))
	assert.Equal(t, "book 1 does not exist", describe(r.err))
}

func TestRejectedWrites(t *testing.T) {
	t.Parallel()

	dsn := tempDSN(t)
	mustExecute(t, dsn, "add-customer", "C", "c@example.com", "1")
	mustExecute(t, dsn, "add-book", "B", "", "", "2000", "1")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantMsg  string
	}{
		{"unknown author", []string{"add-book", "X", "Nobody", "", "2000", "1"}, exitReferenceNotFound, `author "Nobody" does not exist`},
		{"unknown genre label", []string{"add-author", "Ann", "--genre", "Poetry"}, exitReferenceNotFound, "--resolution auto-create"},
		{"bad year", []string{"add-book", "X", "", "", "MMXX", "1"}, exitInvalidInput, `invalid publication_year "MMXX"`},
		{"bad date", []string{"add-order", "1", "--customer", "1", "--date", "2023-13-40"}, exitInvalidInput, "expected YYYY-MM-DD"},
		{"unknown customer", []string{"add-order", "1", "--customer", "9"}, exitReferenceNotFound, "customer 9 does not exist"},
		{"unknown book", []string{"add-order", "9", "--customer", "1"}, exitReferenceNotFound, "book 9 does not exist"},
		{"bad email", []string{"add-customer", "D", "nope", "2"}, exitInvalidInput, "invalid input"},
		{"missing customer", []string{"update-customer", "5", "--phone", "2"}, exitNotFound, "customer 5 does not exist"},
		{"bad id", []string{"delete-customer", "abc"}, exitInvalidInput, `invalid id "abc"`},
		{"bad resolution", []string{"list-books", "--resolution", "lenient"}, exitFailure, "unknown resolution policy"},
	}
	for _, tt := range tests {
		r := execute(t, dsn, tt.args...)
		require.Error(t, r.err, tt.name)
		assert.Equal(t, tt.wantCode, exitCode(r.err), tt.name)
		assert.Contains(t, describe(r.err), tt.wantMsg, tt.name)
	}

	out := mustExecute(t, dsn, "list-books")
	assert.NotContains(t, out, "X", "no rejected book is written")
	assert.Equal(t, "(0 rows)\n", mustExecute(t, dsn, "list-orders"))
}

func TestAutoCreateResolution(t *testing.T) {
	t.Parallel()

	dsn := tempDSN(t)
	mustExecute(t, dsn, "add-book", "B", "Bob", "Poetry", "2000", "1", "--resolution", "auto-create")

	out := mustExecute(t, dsn, "list-genres")
	assert.Contains(t, out, "Poetry")
	out = mustExecute(t, dsn, "list-authors")
	assert.Contains(t, out, "Bob")
}

func TestJSONOutput(t *testing.T) {
	t.Parallel()

	dsn := tempDSN(t)
	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, dsn, "add-genre", "Fiction", "-o", "json")), &created))
	assert.Equal(t, "genre", created["kind"])
	assert.EqualValues(t, 1, created["id"])

	mustExecute(t, dsn, "add-book", "Book 1", "", "Fiction", "2000", "20", "--stock", "4")

	var books []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Stock int64  `json:"stock"`
		Genre *struct {
			Name string `json:"name"`
		} `json:"genre"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, dsn, "list-books", "--output", "json")), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Book 1", books[0].Title)
	assert.Equal(t, int64(4), books[0].Stock)
	require.NotNil(t, books[0].Genre)
	assert.Equal(t, "Fiction", books[0].Genre.Name)
}

func TestSeedAndMigrate(t *testing.T) {
	t.Parallel()

	dsn := tempDSN(t)
	assert.Contains(t, mustExecute(t, dsn, "migrate"), "Schema at version 2 (sqlite)")

	out := mustExecute(t, dsn, "seed")
	assert.Contains(t, out, "book")

	out = mustExecute(t, dsn, "list-books")
	assert.Contains(t, out, "Book 1")
	assert.Contains(t, out, "Book 2")

	r := execute(t, dsn, "seed", "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, r.err)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "bookstore "+Version+"\n", out.String())
}

func TestCommandsHaveHelp(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	want := []string{
		"migrate", "seed", "add-author", "add-genre", "add-customer", "add-book",
		"update-book", "update-customer", "delete-book", "delete-customer", "add-order",
		"list-books", "list-authors", "list-genres", "list-customers", "list-orders",
		"search-books", "stock", "show-book", "show-customer", "version",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
		assert.NotEmpty(t, cmd.Short, name)
	}
	for _, flag := range []string{"config", "driver", "dsn", "resolution", "cascade", "output", "verbose", "debug-sql"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestDescribeAndExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		wantMsg  string
		wantCode int
	}{
		{&model.NotFoundError{Kind: model.KindCustomer, ID: 3}, "customer 3 does not exist", exitNotFound},
		{fmt.Errorf("wrapped: %w", &model.ReferenceNotFoundError{Kind: model.KindGenre, Key: "Poetry"}), `genre "Poetry" does not exist`, exitReferenceNotFound},
		{&model.InvalidFormatError{Field: "price", Value: "x"}, `invalid price "x"`, exitInvalidInput},
		{model.ValidationErrors{{Field: "email", Reason: "must be a valid email"}}, "invalid input: invalid email: must be a valid email", exitInvalidInput},
		{&model.ValidationError{Field: "name", Reason: "must not be empty"}, "invalid input: invalid name: must not be empty", exitInvalidInput},
		{&model.HasDependentsError{Kind: model.KindBook, ID: 1, Dependents: 2}, "book 1 still has 2 order record(s)", exitHasDependents},
		{&model.StoreUnavailableError{Op: "insert book", Err: errors.New("disk full")}, "store unavailable: insert book: disk full", exitStoreUnavailable},
		{errors.New("boom"), "boom", exitFailure},
	}
	for _, tt := range tests {
		assert.Contains(t, describe(tt.err), tt.wantMsg)
		assert.Equal(t, tt.wantCode, exitCode(tt.err), tt.wantMsg)
	}
}
