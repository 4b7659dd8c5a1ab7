package clock

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClockString converts a clock string to minutes since midnight.
// Accepted forms are "H:MM", "H:MMam", "H:MM pm" with any meridiem casing.
// The second return value is false for malformed input.
func ParseClockString(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, false
	}
	meridiem := ""
	for _, suffix := range []string{"am", "pm"} {
		if strings.HasSuffix(s, suffix) {
			meridiem = suffix
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}
	h, m, ok := splitHourMinute(s)
	if !ok {
		return 0, false
	}
	switch meridiem {
	case "am":
		if h < 1 || h > 12 {
			return 0, false
		}
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 1 || h > 12 {
			return 0, false
		}
		if h != 12 {
			h += 12
		}
	default:
		if h > 23 {
			return 0, false
		}
	}
	return h*60 + m, true
}

func splitHourMinute(s string) (int, int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, 0, false
	}
	if len(parts[1]) != 2 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// MinutesToClockLabel renders minutes since midnight in 12-hour form with
// zero-padded minutes, e.g. 605 -> "10:05am".
func MinutesToClockLabel(m int) string {
	m %= 24 * 60
	if m < 0 {
		m += 24 * 60
	}
	h := m / 60
	meridiem := "am"
	if h >= 12 {
		meridiem = "pm"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d%s", h, m%60, meridiem)
}

// RoundToGrid rounds m to the nearest multiple of increment. Ties round up.
func RoundToGrid(m, increment int) int {
	if increment <= 0 {
		return m
	}
	r := m % increment
	if r*2 >= increment {
		return m - r + increment
	}
	return m - r
}

// Round applies simple half-up rounding to a duration scaled by ratio.
func Round(f float64) int {
	return int(f + 0.5)
}
