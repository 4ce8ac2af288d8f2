package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tool arguments arrive as loosely typed JSON: numbers may be sent as
// strings and integers as floats.

// getStringField gets a string field from the arguments map.
func getStringField(args map[string]interface{}, key, defaultVal string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// getIntField gets an int field from the arguments map.
func getIntField(args map[string]interface{}, key string, defaultVal int) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal, nil
	}
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(t), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return defaultVal, nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%s must be an integer", key)
}

// getFloatField gets an optional float field. A nil result means the
// field was absent.
func getFloatField(args map[string]interface{}, key string) (*float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case float64:
		return &t, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", key)
		}
		// ParseFloat accepts "Inf", "Infinity" and "NaN".
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%s must be a finite number", key)
		}
		return &f, nil
	}
	return nil, fmt.Errorf("%s must be a number", key)
}

// decodeArguments parses raw tool arguments into a map. Empty input is an
// empty map.
func decodeArguments(raw json.RawMessage) (map[string]interface{}, error) {
	args := make(map[string]interface{})
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return args, nil
}
