package orm

import (
	"context"
	"fmt"
	"strings"
)

// Pair holds a key–value pair read from two columns of one row.
type Pair[K, V comparable] struct {
	Key   K
	Value V
}

// QueryPairs reads (keyCol, valueCol) rows from table where keyCol IN
// (keys), ordered by orderCol ascending so callers can rely on insertion
// order when orderCol is the primary key.
func QueryPairs[K, V comparable](
	ctx context.Context, db Querier, table, keyCol, valueCol, orderCol string, keys []K,
) ([]Pair[K, V], error) {
	if len(keys) == 0 {
		return nil, nil
	}

	d := db.dialect()
	qi := d.QuoteIdent

	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		placeholders[i] = "?"
		args[i] = k
	}

	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s IN (%s) ORDER BY %s",
		qi(keyCol), qi(valueCol), qi(table), qi(keyCol),
		strings.Join(placeholders, ", "), qi(orderCol),
	)
	query = rewritePlaceholders(d, query)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	var pairs []Pair[K, V]
	for rows.Next() {
		var p Pair[K, V]
		if err := rows.Scan(&p.Key, &p.Value); err != nil {
			return nil, err //nolint:wrapcheck // pass through
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err() //nolint:wrapcheck // pass through
}

// FirstByKey keeps the first value seen for each key.
func FirstByKey[K, V comparable](pairs []Pair[K, V]) map[K]V {
	m := make(map[K]V, len(pairs))
	for _, p := range pairs {
		if _, ok := m[p.Key]; !ok {
			m[p.Key] = p.Value
		}
	}
	return m
}
