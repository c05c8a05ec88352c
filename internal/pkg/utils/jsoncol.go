package utils

import (
	"encoding/json"
	"strings"
)

// StringsToJSON converts []string to a JSON string (safe for DB)
func StringsToJSON(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(items)
	return string(data)
}

// JSONToStrings converts a DB string back to []string
func JSONToStrings(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		// Fallback: treat as comma-separated if invalid JSON
		return strings.Split(s, ",")
	}
	return items
}

// FloatsToJSON converts a label->probability map to a JSON string.
// Returns "" for an empty map so the column stays NULL-ish.
func FloatsToJSON(m map[string]float64) string {
	if len(m) == 0 {
		return ""
	}
	data, _ := json.Marshal(m)
	return string(data)
}

// JSONToFloats converts a DB string back to a label->probability map.
func JSONToFloats(s string) map[string]float64 {
	if s == "" {
		return nil
	}
	var m map[string]float64
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
