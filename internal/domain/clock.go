package domain

import (
	"strconv"
	"strings"
)

var clockSeparators = strings.NewReplacer(";", ":", "_", ":", "-", ":")

// ParseTimeToMillis converts an "hh:mm:ss", "mm:ss" or "ss" clock offset to
// milliseconds. Lenient about separators: ";", "_" and "-" are accepted in
// place of ":". Blank input returns ErrNoTimestamp so callers can treat the
// offset as absent; anything else malformed returns ErrInvalidTimestamp.
func ParseTimeToMillis(val string) (int64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, ErrNoTimestamp
	}

	parts := strings.Split(clockSeparators.Replace(val), ":")
	if len(parts) > 3 {
		return 0, ErrInvalidTimestamp
	}

	nums := make([]int64, 0, 3)
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || f < 0 {
			return 0, ErrInvalidTimestamp
		}
		nums = append(nums, int64(f))
	}

	var h, m, s int64
	switch len(nums) {
	case 3:
		h, m, s = nums[0], nums[1], nums[2]
	case 2:
		m, s = nums[0], nums[1]
	case 1:
		s = nums[0]
	}
	return (h*3600 + m*60 + s) * 1000, nil
}
