package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/bookstore/internal/model"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2023-01-31", want: "2023-01-31"},
		{in: "2024-02-29", want: "2024-02-29"},
		{in: "2023-13-40", wantErr: true},
		{in: "2023-02-30", wantErr: true},
		{in: "2023-1-5", wantErr: true},
		{in: "23-01-05", wantErr: true},
		{in: "2023/01/05", wantErr: true},
		{in: "2023-01-05T00:00:00Z", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := model.ParseDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDateScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  any
	}{
		{"time", time.Date(2023, 5, 6, 13, 4, 5, 0, time.UTC)},
		{"string", "2023-05-06"},
		{"bytes", []byte("2023-05-06")},
		{"timestamp text", "2023-05-06T00:00:00Z"},
		{"sqlite datetime", "2023-05-06 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var d model.Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, "2023-05-06", d.String())
		})
	}

	var d model.Date
	assert.Error(t, d.Scan(42))
}

func TestDateValueAndJSON(t *testing.T) {
	t.Parallel()

	d, err := model.ParseDate("2020-12-01")
	require.NoError(t, err)

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2020-12-01", v)

	b, err := json.Marshal(model.OrderRecord{BookID: 1, OrderDate: &d})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"order_date":"2020-12-01"`)

	var back model.OrderRecord
	require.NoError(t, json.Unmarshal(b, &back))
	require.NotNil(t, back.OrderDate)
	assert.True(t, back.OrderDate.Equal(d.Time))
}

func TestErrorsMatchSentinels(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	tests := []struct {
		err      error
		sentinel error
		message  string
	}{
		{&model.NotFoundError{Kind: model.KindBook, ID: 9}, model.ErrNotFound, "book 9 not found"},
		{&model.ReferenceNotFoundError{Kind: model.KindAuthor, Key: "Ann"}, model.ErrReferenceNotFound, `referenced author "Ann" does not exist`},
		{&model.InvalidFormatError{Field: "order_date", Value: "x"}, model.ErrInvalidFormat, `invalid order_date "x"`},
		{&model.ValidationError{Field: "name", Reason: "must not be empty"}, model.ErrValidation, "invalid name: must not be empty"},
		{&model.HasDependentsError{Kind: model.KindCustomer, ID: 1, Dependents: 2}, model.ErrHasDependents, "customer 1 is referenced by 2 order record(s)"},
		{&model.StoreUnavailableError{Op: "insert book", Err: cause}, model.ErrStoreUnavailable, "store unavailable: insert book: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			t.Parallel()

			wrapped := errors.Join(errors.New("context"), tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}

	assert.ErrorIs(t, &model.StoreUnavailableError{Op: "q", Err: cause}, cause)
	assert.NotErrorIs(t, &model.NotFoundError{}, model.ErrReferenceNotFound)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		entity     any
		wantFields []string
	}{
		{"valid author", &model.Author{Name: "Ann", BirthYear: model.Ptr(1900)}, nil},
		{"author without name", &model.Author{}, []string{"name"}},
		{"negative birth year", &model.Author{Name: "Ann", BirthYear: model.Ptr(-1)}, []string{"birth_year"}},
		{"genre without name", &model.Genre{}, []string{"name"}},
		{"valid book", &model.Book{Title: "T", PublicationYear: 2000, Price: 9.5}, nil},
		{"book negative price", &model.Book{Title: "T", Price: -1}, []string{"price"}},
		{"book without title", &model.Book{PublicationYear: -3}, []string{"title", "publication_year"}},
		{"customer bad email", &model.Customer{Name: "C", Email: "nope"}, []string{"email"}},
		{"customer empty email", &model.Customer{Name: "C"}, nil},
		{"order without book", &model.OrderRecord{QuantityInStock: -2}, []string{"book_id", "quantity_in_stock"}},
		{"book with invalid loaded relation", &model.Book{Title: "T", Author: &model.Author{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := model.Validate(tt.entity)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, model.ErrValidation)

			var errs model.ValidationErrors
			require.ErrorAs(t, err, &errs)
			fields := make([]string, len(errs))
			for i, e := range errs {
				fields[i] = e.Field
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestOrderRecordIsStockOnly(t *testing.T) {
	t.Parallel()

	assert.True(t, model.OrderRecord{BookID: 1}.IsStockOnly())
	assert.False(t, model.OrderRecord{BookID: 1, CustomerID: model.Ptr(int64(2))}.IsStockOnly())
}
