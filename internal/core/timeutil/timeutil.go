package timeutil

import "time"

// EST is the fixed offset the terminal systems report their timestamps in.
// The source feeds do not observe daylight saving.
var EST = time.FixedZone("EST", -5*60*60)

// NowEST returns the current time in the fixed EST offset.
func NowEST() time.Time {
	return time.Now().In(EST)
}
