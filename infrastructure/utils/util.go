package utils

import "time"

// GetCurrentTime returns the current time in UTC; record timestamps all go
// through here so stored values stay comparable.
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}
