package catalog

import "fmt"

// getString reads a raw field as a string; absent or non-string values yield "".
func getString(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// getNumber reads a raw field as a number. JSON decoding produces float64,
// but hand-built rows may carry ints.
func getNumber(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// holdStatus walks the PTP shipmentstatus[0].holdsinfo list and returns the
// status of the first hold whose type matches, or the sentinel.
func holdStatus(row map[string]any, holdType string) string {
	statuses, ok := row["shipmentstatus"].([]any)
	if !ok || len(statuses) == 0 {
		return sentinel
	}
	first, ok := statuses[0].(map[string]any)
	if !ok {
		return sentinel
	}
	holds, ok := first["holdsinfo"].([]any)
	if !ok {
		return sentinel
	}
	for _, h := range holds {
		hold, ok := h.(map[string]any)
		if !ok {
			continue
		}
		if getString(hold, "type") == holdType {
			if s := getString(hold, "status"); s != "" {
				return s
			}
			return sentinel
		}
	}
	return sentinel
}

// conditionInfo digs locations[0].locationinfo.currentconditioninfo and
// returns the requested field, or the sentinel.
func conditionInfo(row map[string]any, key string) string {
	locations, ok := row["locations"].([]any)
	if !ok || len(locations) == 0 {
		return sentinel
	}
	first, ok := locations[0].(map[string]any)
	if !ok {
		return sentinel
	}
	info, ok := first["locationinfo"].(map[string]any)
	if !ok {
		return sentinel
	}
	condition, ok := info["currentconditioninfo"].(map[string]any)
	if !ok {
		return sentinel
	}
	if s := getString(condition, key); s != "" {
		return s
	}
	return sentinel
}
