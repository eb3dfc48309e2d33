package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Vietnam time location (ICT, +07:00)
var vnLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Ho_Chi_Minh"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*3600)
}()

func VNLocation() *time.Location { return vnLoc }

func NowUnixSeconds() int64 { return time.Now().Unix() }

// ParseTravelDate accepts a plain date or an RFC3339 timestamp and returns midnight in VN time.
func ParseTravelDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, vnLoc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: travel date %q", ErrInvalidInput, s)
	}
	t = t.In(vnLoc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, vnLoc), nil
}

func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(vnLoc).Format(DateLayout)
}
