// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/author"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

func TestSameName(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"Ursula K. Le Guin", "URSULA K. LE GUIN", true},
		{"  Borges ", "borges", true},
		{"Julio Cortázar", "JULIO CORTÁZAR", true},
		{"Straße", "STRASSE", false},
		{"ΣΊΣΥΦΟΣ", "σίσυφοσ", true},
		{"Asimov", "Azimov", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.same, author.SameName(tt.a, tt.b))
		})
	}
}

func TestCreateAuthor_NameRuleMatchesIndex(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	_, err := service.CreateAuthor(ctx, &author.Author{Name: "Straße"})
	require.NoError(t, err)

	_, err = service.CreateAuthor(ctx, &author.Author{Name: "STRASSE"})
	assert.NoError(t, err, "LOWER() keeps ß distinct from ss")

	_, err = service.CreateAuthor(ctx, &author.Author{Name: "STRAßE"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}
