package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var integerPattern = regexp.MustCompile(`^-?\d+$`)

// ParseDeadline converts a raw deadline into an instant. Integers, and
// strings holding only an integer, are epoch milliseconds. Any other string
// is parsed as a date in UTC unless it carries its own zone.
func ParseDeadline(raw interface{}) (time.Time, error) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, ErrDeadlineRequired
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, ErrDeadlineRequired
		}
		if integerPattern.MatchString(trimmed) {
			ms, err := strconv.ParseInt(trimmed, 10, 64)
			if err != nil {
				return time.Time{}, ErrDeadlineInvalid
			}
			return fromEpochMillis(float64(ms))
		}
		parsed, err := dateparse.ParseIn(trimmed, time.UTC)
		if err != nil {
			return time.Time{}, ErrDeadlineInvalid
		}
		return parsed.UTC(), nil
	case float64:
		return fromEpochMillis(v)
	case int:
		return fromEpochMillis(float64(v))
	case int64:
		return fromEpochMillis(float64(v))
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrDeadlineRequired
		}
		return v.UTC(), nil
	default:
		return time.Time{}, ErrDeadlineInvalid
	}
}

// maxEpochMillis bounds the representable range to ±8.64e15 ms around the epoch.
const maxEpochMillis = 8.64e15

func fromEpochMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, ErrDeadlineInvalid
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// ParseBool reads the completed flag. Booleans pass through, the strings
// "true"/"1" and "false"/"0" are recognised case-insensitively, and anything
// else (including absence) is false.
func ParseBool(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// NormalizePendingTasks turns the raw pendingTasks field into a sorted set of
// trimmed task IDs. Absence means the empty set.
func NormalizePendingTasks(raw interface{}) ([]string, error) {
	var elements []interface{}

	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case []string:
		elements = make([]interface{}, len(v))
		for i, s := range v {
			elements[i] = s
		}
	case []interface{}:
		elements = v
	default:
		return nil, ErrPendingTasksNotList
	}

	seen := make(map[string]struct{}, len(elements))
	ids := make([]string, 0, len(elements))
	for _, element := range elements {
		s, ok := element.(string)
		if !ok {
			return nil, ErrPendingTaskInvalidID
		}
		id := strings.TrimSpace(s)
		if id == "" {
			return nil, ErrPendingTaskInvalidID
		}
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids, nil
}

// difference returns the members of a that are not in b
func difference(a, b []string) []string {
	exclude := make(map[string]struct{}, len(b))
	for _, id := range b {
		exclude[id] = struct{}{}
	}

	result := make([]string, 0, len(a))
	for _, id := range a {
		if _, ok := exclude[id]; !ok {
			result = append(result, id)
		}
	}
	return result
}
