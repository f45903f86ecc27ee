package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// rawCourse mirrors the loose on-disk course format. Numeric fields
// arrive as numbers or strings depending on who exported the catalog,
// so everything is decoded permissively and coerced afterwards.
type rawCourse struct {
	Code        any `json:"code"`
	Name        any `json:"name"`
	CFU         any `json:"cfu"`
	Semester    any `json:"semester"`
	Language    any `json:"language"`
	Group       any `json:"group"`
	SSD         any `json:"ssd"`
	Description any `json:"description"`
}

// LoadCourses reads a course catalog JSON file into []Course with
// light normalization. A malformed field in one record coerces to a
// safe default instead of failing the whole load.
func LoadCourses(path string) ([]Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read courses file: %w", err)
	}

	var raw []rawCourse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse courses file: %w", err)
	}

	courses := make([]Course, 0, len(raw))
	for _, item := range raw {
		courses = append(courses, normalizeCourse(item))
	}
	return courses, nil
}

func normalizeCourse(item rawCourse) Course {
	language := strings.ToUpper(coerceString(item.Language, "UNKNOWN"))
	if language == "" {
		language = "UNKNOWN"
	}
	group := coerceString(item.Group, "UNKNOWN")
	if group == "" {
		group = "UNKNOWN"
	}

	return Course{
		Code:        coerceString(item.Code, ""),
		Name:        coerceString(item.Name, ""),
		CFU:         coerceFloat(item.CFU),
		Semester:    coerceInt(item.Semester),
		Language:    language,
		Group:       group,
		SSD:         coerceStringList(item.SSD),
		Description: coerceString(item.Description, ""),
	}
}

func coerceString(v any, defaultValue string) string {
	switch s := v.(type) {
	case nil:
		return defaultValue
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0.0
		}
		return n
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &f); err == nil && f >= 0 {
			return f
		}
	}
	return 0.0
}

func coerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		var i int
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%d", &i); err == nil {
			return i
		}
	}
	return 0
}

func coerceStringList(v any) []string {
	switch list := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s := coerceString(item, "")
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(list); s != "" {
			return []string{s}
		}
		return []string{}
	default:
		return []string{}
	}
}
