package services

import (
	"fmt"
	"time"
)

// Codes look like ORD-20250130-001: day prefix plus a per-day sequence.
// The sequence comes from counting existing codes with the day's prefix,
// which is not atomic; the unique index on order_code catches the race and
// Submit recounts and retries.
const orderCodeAttempts = 3

func orderCodePrefix(t time.Time) string {
	return t.Format("ORD-20060102")
}

func (s *OrderService) nextOrderCode(now time.Time) (string, error) {
	prefix := orderCodePrefix(now)
	count, err := s.orders.CountByCodePrefix(prefix)
	if err != nil {
		return "", fmt.Errorf("count orders for %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%03d", prefix, count+1), nil
}
