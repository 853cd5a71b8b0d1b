package util

import (
	"strconv"

	"github.com/samber/lo"
)

// ParsePagination 解析 ?page=&limit=，非法值取默认，limit 封顶 MaxLimit
func ParsePagination(pageStr, limitStr string) (page, limit int) {
	page, limit = DefaultPage, DefaultLimit
	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		limit = lo.Clamp(n, 1, MaxLimit)
	}
	return page, limit
}
