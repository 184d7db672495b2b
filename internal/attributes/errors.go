package attributes

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors maps a field name to the reason it was rejected.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func (v ValidationErrors) floorArea(field string, value float64) {
	if !(value >= MinFloorArea && value <= MaxFloorArea) {
		v[field] = fmt.Sprintf("must be between %d and %d", MinFloorArea, MaxFloorArea)
	}
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
