package enum

import (
	"encoding/json"
	"fmt"
)

// The enums in this package are stored as small integers and travel over
// JSON as their lowercase names. Integers are accepted on input for older clients.

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func parseName(kind string, names []string, data []byte) (int, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return 0, err
		}
		if i < 0 || i >= len(names) {
			return 0, fmt.Errorf("invalid %s %d", kind, i)
		}
		return i, nil
	}
	for i, n := range names {
		if n == str {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q", kind, str)
}

func scanInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("cannot scan %T into enum", value)
	}
}
