// Package query holds the per-table query factories for the bookstore
// entities: column lists, row scanners, named joins and preloaders on top
// of orm.Query.
package query
