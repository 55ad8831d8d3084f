package handler

import (
	"strconv"
	"time"
)

// parseHourParam accepts an hour bucket as RFC3339 or unix seconds and
// truncates it to the hour
func parseHourParam(raw string) (time.Time, error) {
	if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(ts, 0).UTC().Truncate(time.Hour), nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(time.Hour), nil
}
