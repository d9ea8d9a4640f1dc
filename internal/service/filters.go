package service

import (
	"strconv"
	"strings"

	domainerrors "github.com/abhie-lp/recipe-app-api/internal/errors"
)

// ParseIDList parses a comma-separated list of integer IDs, as used by
// the recipe list filter query parameters. An empty string yields nil.
// Blank items between commas are skipped; non-integer items are rejected.
func ParseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, domainerrors.Validationf("invalid id %q in filter", part)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

// ParseAssignedOnly interprets the assigned_only query parameter.
// "1" and "true" are truthy, "0", "false" and an absent value are falsy.
// Anything else is rejected.
func ParseAssignedOnly(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true":
		return true, nil
	case "", "0", "false":
		return false, nil
	default:
		return false, domainerrors.Validationf("invalid assigned_only value %q", raw)
	}
}
