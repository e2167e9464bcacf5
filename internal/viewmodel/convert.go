package viewmodel

import (
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/datatypes"
)

// Object decodes a JSON column into a map. Empty or malformed columns become an empty map.
func Object(raw datatypes.JSON) map[string]any {
	out := map[string]any{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// JSON encodes m for storage in a JSON column; nil maps are stored as {}.
func JSON(m map[string]any) datatypes.JSON {
	if m == nil {
		return datatypes.JSON("{}")
	}
	b, err := json.Marshal(m)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

func sortedStrings(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}

func indexed(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}
