// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/pkg/query"
)

func TestOptionalInt(t *testing.T) {
	values := url.Values{"year_from": {"1965"}, "year_to": {" "}, "author_id": {"abc"}}

	from, err := query.OptionalInt(values, "year_from")
	require.NoError(t, err)
	require.NotNil(t, from)
	assert.Equal(t, 1965, *from)

	to, err := query.OptionalInt(values, "year_to")
	require.NoError(t, err)
	assert.Nil(t, to)

	missing, err := query.OptionalInt(values, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = query.OptionalInt(values, "author_id")
	assert.Error(t, err)
}
