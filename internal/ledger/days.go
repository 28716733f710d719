package ledger

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

var ErrAmountOverflow = errors.New("amount overflows")

// ParseDate parses a yyyy-mm-dd date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}
	return t, nil
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// UsedDays counts the calendar days an item was out, including both the
// rent-out day and the return day. Times of day are ignored.
func UsedDays(rentedOn, returnedOn time.Time) (int32, error) {
	start := civilDay(rentedOn)
	end := civilDay(returnedOn)
	if end.Before(start) {
		return 0, fmt.Errorf("return date must be >= rent-out date")
	}
	days := int64(end.Sub(start)/(24*time.Hour)) + 1
	if days > math.MaxInt32 {
		return 0, ErrAmountOverflow
	}
	return int32(days), nil
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ReturnItemTotal is quantity * rentPerDay * usedDays in cents.
func ReturnItemTotal(quantity int32, rentPerDayCents int64, usedDays int32) (int64, error) {
	perDay, err := mulCents(int64(quantity), rentPerDayCents)
	if err != nil {
		return 0, err
	}
	return mulCents(perDay, int64(usedDays))
}

func mulCents(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrAmountOverflow
	}
	return c, nil
}
