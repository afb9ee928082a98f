package utils

import "strconv"

const (
	defaultLimit = 50
	maxLimit     = 100
)

type PageParams struct {
	Limit  int
	Offset int
}

// ParsePagination normalizes limit/offset query values: defaults apply
// when empty or unparsable, limit is clamped to [1, 100], offset to >= 0.
func ParsePagination(limitStr, offsetStr string) PageParams {
	limit := defaultLimit
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		limit = n
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := 0
	if n, err := strconv.Atoi(offsetStr); err == nil && n > 0 {
		offset = n
	}

	return PageParams{Limit: limit, Offset: offset}
}
