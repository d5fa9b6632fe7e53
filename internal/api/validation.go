package api

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// parseYearMonth validates the year/month pair every analysis operation is
// keyed by. Years are bounded to a sane range rather than left open.
func parseYearMonth(year, month int) error {
	if year < 2000 || year > time.Now().Year()+1 {
		return fmt.Errorf("year %d out of range", year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d out of range", month)
	}
	return nil
}

// yearMonthFromQuery reads ?year= and ?month= query parameters.
func yearMonthFromQuery(values url.Values) (year, month int, err error) {
	year, err = strconv.Atoi(values.Get("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("year must be an integer")
	}
	month, err = strconv.Atoi(values.Get("month"))
	if err != nil {
		return 0, 0, fmt.Errorf("month must be an integer")
	}
	if err := parseYearMonth(year, month); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}
