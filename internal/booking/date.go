package booking

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date form clients send for a trek start.
const DateLayout = "2006-01-02"

// Date is a start date that decodes from either YYYY-MM-DD or RFC 3339.
// A bare date is taken as midnight UTC.
type Date struct {
	time.Time
}

// UnmarshalJSON accepts "2026-11-01" as well as "2026-11-01T00:00:00Z".
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("start date must be a string: %w", err)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("start date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the calendar date only.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}
