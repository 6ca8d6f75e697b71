package database

import (
	"fmt"
	"slices"
	"strings"
)

// Page carries list-endpoint pagination: offset, limit and optional sort.
// SortBy is only ever interpolated after a whitelist check against the
// table's column set; values go through placeholders, identifiers cannot.
type Page struct {
	Skip    int
	Limit   int
	SortBy  string
	SortDir string
}

// DefaultPage mirrors the API defaults: first 100 rows, unsorted.
func DefaultPage() Page {
	return Page{Limit: 100, SortDir: "asc"}
}

// clauses renders the trailing ORDER BY / LIMIT / OFFSET part of a SELECT.
// columns is the whitelist of sortable identifiers for the table.
func (p Page) clauses(columns ...string) (string, error) {
	var dir string
	switch strings.ToLower(p.SortDir) {
	case "", "asc":
		dir = "ASC"
	case "desc":
		dir = "DESC"
	default:
		return "", fmt.Errorf("%w: sort_dir %q", ErrInvalidColumn, p.SortDir)
	}

	var b strings.Builder
	if p.SortBy != "" {
		if !slices.Contains(columns, p.SortBy) {
			return "", fmt.Errorf("%w: %q, expected one of %v", ErrInvalidColumn, p.SortBy, columns)
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", p.SortBy, dir)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}
	skip := p.Skip
	if skip < 0 {
		skip = 0
	}
	fmt.Fprintf(&b, " LIMIT %d OFFSET %d", limit, skip)
	return b.String(), nil
}
