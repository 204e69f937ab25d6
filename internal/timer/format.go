package timer

import (
	"time"
	_ "time/tzdata"
)

const DisplayLayout = "Jan 2, 2006 15:04:05 MST"

// FormatInZone renders an instant for display in the IANA zone tz. Unknown
// zones fall back to UTC. A nil instant renders as an empty string.
func FormatInZone(instant *time.Time, tz string) string {
	if instant == nil {
		return ""
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return instant.In(loc).Format(DisplayLayout)
}
