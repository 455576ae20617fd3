// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses typed values out of URL query parameters.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// String returns the trimmed value of key, or "" when absent.
func String(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

// OptionalInt parses key as an integer. It returns nil when the parameter is
// absent or blank, and an error when it is present but not an integer.
func OptionalInt(values url.Values, key string) (*int, error) {
	raw := String(values, key)
	if raw == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}
