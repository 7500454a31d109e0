package handlers

import (
	"fmt"
	"time"

	"cascade/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

const dateOnly = "2006-01-02"

// dateRange reads startDate and endDate. Both accept RFC3339 or a plain
// date; a plain end date includes the whole day.
func dateRange(c *fiber.Ctx) (repositories.DateRange, error) {
	var rng repositories.DateRange

	if v := c.Query("startDate"); v != "" {
		from, _, err := parseDate(v)
		if err != nil {
			return rng, fmt.Errorf("invalid startDate: %w", err)
		}
		rng.From = &from
	}

	if v := c.Query("endDate"); v != "" {
		to, wholeDay, err := parseDate(v)
		if err != nil {
			return rng, fmt.Errorf("invalid endDate: %w", err)
		}
		if wholeDay {
			to = to.Add(24 * time.Hour)
		}
		rng.To = &to
	}

	if rng.From != nil && rng.To != nil && !rng.From.Before(*rng.To) {
		return rng, fmt.Errorf("startDate must be before endDate")
	}
	return rng, nil
}

func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateOnly, v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
