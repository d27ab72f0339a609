package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

const monthLayout = "2006-01"

// parseDate returns the zero date for an empty value.
func parseDate(value string) (domain.LocalDate, error) {
	if value == "" {
		return domain.LocalDate{}, nil
	}
	d, err := domain.ParseLocalDate(value)
	if err != nil {
		return domain.LocalDate{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return d, nil
}

func parseMonth(value string, fallback domain.LocalDate) (int, time.Month, error) {
	if value == "" {
		return fallback.Year, fallback.Month, nil
	}
	t, err := time.Parse(monthLayout, value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month format, use YYYY-MM: %w", err)
	}
	return t.Year(), t.Month(), nil
}

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

// parseOwner defaults to the current user when value is empty.
func parseOwner(value string, self uuid.UUID) (uuid.UUID, error) {
	if value == "" {
		return self, nil
	}
	return parseUUID(value)
}
