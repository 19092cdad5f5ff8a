package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func ParseUint(s string) (uint, bool) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// Calculate turns a 1-based page into an offset; page and size must already be validated.
func Calculate(page, size int) (offset int, limit int) {
	return (page - 1) * size, size
}

func TotalPages(total int64, size int) int64 {
	if size < 1 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}

func Meta(page, size int, total int64) map[string]any {
	offset, limit := Calculate(page, size)
	return map[string]any{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": TotalPages(total, limit),
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}
