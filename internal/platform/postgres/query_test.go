// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookshelf/internal/platform/postgres"
)

func TestArgs_Add(t *testing.T) {
	var args postgres.Args

	assert.Equal(t, "$1", args.Add("dune"))
	assert.Equal(t, "$2", args.Add(1965))
	assert.Equal(t, postgres.Args{"dune", 1965}, args)
}

func TestWhere(t *testing.T) {
	assert.Equal(t, "", postgres.Where(nil))
	assert.Equal(t, " WHERE a = $1 AND b = $2", postgres.Where([]string{"a = $1", "b = $2"}))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%dune%", postgres.ContainsPattern("dune"))
	assert.Equal(t, `%100\%%`, postgres.ContainsPattern("100%"))
	assert.Equal(t, `%a\_b%`, postgres.ContainsPattern("a_b"))
}
