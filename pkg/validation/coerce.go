package validation

import (
	"strconv"
	"strings"
)

// coerce converts string inputs to the type a rule expects. It reports
// false when the value was left as is, including unparsable strings which
// are then rejected by the schema type check.
func coerce(kind Kind, value any) (any, bool) {
	s, ok := value.(string)
	if !ok {
		return value, false
	}
	s = strings.TrimSpace(s)
	switch kind {
	case KindNumber, KindInteger:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value, false
		}
		return f, true
	case KindBoolean:
		switch strings.ToLower(s) {
		case "true", "on", "yes", "1":
			return true, true
		case "false", "off", "no", "0":
			return false, true
		}
	}
	return value, false
}
