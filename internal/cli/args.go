package cli

import (
	"strconv"
	"strings"

	"github.com/mickamy/bookstore/internal/model"
)

func parseID(field, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, &model.InvalidFormatError{Field: field, Value: s}
	}
	return id, nil
}

func parseInt(field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &model.InvalidFormatError{Field: field, Value: s}
	}
	return n, nil
}

func parseInt64(field, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &model.InvalidFormatError{Field: field, Value: s}
	}
	return n, nil
}

func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &model.InvalidFormatError{Field: field, Value: s}
	}
	return f, nil
}
