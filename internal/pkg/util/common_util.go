package util

import (
	"strconv"
	"strings"
)

// ParseIDList 解析逗号分隔的 ID 列表，非法项直接跳过
func ParseIDList(raw string) []uint64 {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	res := make([]uint64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || v == 0 {
			continue
		}
		res = append(res, v)
	}
	return res
}

// ClampLimit 将 limit 限制在 (0, max]，非法值回落到 def
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
