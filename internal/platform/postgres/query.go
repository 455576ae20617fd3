// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"strconv"
	"strings"
)

// Args accumulates positional query arguments.
//
// # Example
//
//	var args postgres.Args
//	where := "author_id = " + args.Add(authorID) // "author_id = $1"
type Args []any

// Add appends value and returns its placeholder.
func (a *Args) Add(value any) string {
	*a = append(*a, value)
	return "$" + strconv.Itoa(len(*a))
}

// Where joins conditions with AND, returning "" when there are none.
func Where(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns s into a LIKE/ILIKE pattern matching any value that
// contains s literally.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
