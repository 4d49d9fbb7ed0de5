// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package database

import (
	"fmt"
	"strings"

	"github.com/tomtom215/servicebridge/internal/geo"
)

// buildInClause creates a parameterized IN clause for SQL queries.
// Returns the placeholder string and the arguments slice.
//
//	placeholders, args := buildInClause([]int64{1, 2, 3})
//	// placeholders = "?,?,?"
//	// args = []interface{}{int64(1), int64(2), int64(3)}
func buildInClause[T any](items []T) (string, []interface{}) {
	placeholders := make([]string, len(items))
	args := make([]interface{}, len(items))
	for i, item := range items {
		placeholders[i] = "?"
		args[i] = item
	}
	return strings.Join(placeholders, ","), args
}

// whereBuilder accumulates AND-ed conditions and their arguments.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (wb *whereBuilder) add(clause string, args ...interface{}) {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
}

// in adds "column IN (...)" when values is non-empty.
func in[T any](wb *whereBuilder, column string, values []T) {
	if len(values) == 0 {
		return
	}
	placeholders, args := buildInClause(values)
	wb.add(fmt.Sprintf("%s IN (%s)", column, placeholders), args...)
}

// notIn adds a NULL-tolerant "column NOT IN (...)" when values is non-empty.
func notIn[T any](wb *whereBuilder, column string, values []T) {
	if len(values) == 0 {
		return
	}
	placeholders, args := buildInClause(values)
	wb.add(fmt.Sprintf("(%s IS NULL OR %s NOT IN (%s))", column, column, placeholders), args...)
}

// withinClause restricts professional coordinates to the box. A box that
// crosses the antimeridian becomes an OR of its two longitude ranges.
func withinClause(box *geo.Box) (string, []interface{}) {
	ranges := box.LonRanges()
	lon := make([]string, len(ranges))
	args := []interface{}{box.MinLat, box.MaxLat}
	for i, r := range ranges {
		lon[i] = "p.longitude BETWEEN ? AND ?"
		args = append(args, r.Min, r.Max)
	}
	return "p.latitude BETWEEN ? AND ? AND (" + strings.Join(lon, " OR ") + ")", args
}

// build returns the WHERE clause (including the keyword) or "".
func (wb *whereBuilder) build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.clauses, " AND "), wb.args
}
