package monitor

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLine splits one slog text-handler line into its key/value pairs.
// Quoted values are unquoted.
func ParseLine(line string) (map[string]string, error) {
	out := make(map[string]string)
	s := strings.TrimSpace(line)
	for len(s) > 0 {
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return out, fmt.Errorf("expected key=value at %q", s)
		}
		key := s[:eq]
		if strings.ContainsAny(key, " \t\"") {
			return out, fmt.Errorf("malformed key %q", key)
		}
		s = s[eq+1:]

		var val string
		if strings.HasPrefix(s, `"`) {
			end := closingQuote(s)
			if end < 0 {
				return out, fmt.Errorf("unterminated quote for %s", key)
			}
			v, err := strconv.Unquote(s[:end+1])
			if err != nil {
				return out, fmt.Errorf("value of %s: %w", key, err)
			}
			val, s = v, s[end+1:]
		} else {
			end := strings.IndexByte(s, ' ')
			if end < 0 {
				end = len(s)
			}
			val, s = s[:end], s[end:]
		}
		out[key] = val
		s = strings.TrimLeft(s, " ")
	}
	return out, nil
}

// closingQuote returns the index of the quote that ends the string opened
// at s[0], honouring backslash escapes.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
