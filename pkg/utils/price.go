package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParsePrice reads a free-text price. Anything that is not a finite number yields 0.
func ParsePrice(raw string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0.0
	}
	return price
}

// ParsePickupTime accepts an RFC 3339 timestamp or a plain date. An empty value means now.
func ParsePickupTime(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
