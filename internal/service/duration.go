package service

import (
	"fmt"
	"strconv"
)

// parseISODuration converts an ISO-8601 duration as returned by the Data API
// (for example "PT4M13S" or "P1DT2H") into whole seconds. Only week, day,
// hour, minute and second designators are accepted. Month and year
// designators have no fixed length in seconds and are rejected.
func parseISODuration(value string) (int64, error) {
	if len(value) < 2 || value[0] != 'P' {
		return 0, fmt.Errorf("malformed duration %q", value)
	}

	var (
		total  int64
		digits string
		inTime bool
		seen   bool
	)

	for _, c := range value[1:] {
		switch {
		case c >= '0' && c <= '9':
			digits += string(c)
			continue
		case c == 'T':
			if inTime || digits != "" {
				return 0, fmt.Errorf("malformed duration %q", value)
			}
			inTime = true
			continue
		}

		if digits == "" {
			return 0, fmt.Errorf("malformed duration %q", value)
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed duration %q: %w", value, err)
		}
		digits = ""
		seen = true

		var unit int64
		switch {
		case c == 'W' && !inTime:
			unit = 7 * 24 * 3600
		case c == 'D' && !inTime:
			unit = 24 * 3600
		case c == 'H' && inTime:
			unit = 3600
		case c == 'M' && inTime:
			unit = 60
		case c == 'S' && inTime:
			unit = 1
		default:
			return 0, fmt.Errorf("unsupported designator %q in duration %q", c, value)
		}
		total += n * unit
	}

	if digits != "" || !seen {
		return 0, fmt.Errorf("malformed duration %q", value)
	}

	return total, nil
}
