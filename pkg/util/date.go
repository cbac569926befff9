package util

import "time"

// SlotForTime maps a wall-clock time to the briefing slot it belongs
// to. Runs before 15:00 are morning briefings, later runs evening.
func SlotForTime(t time.Time) string {
	if t.Hour() < 15 {
		return "morning"
	}
	return "evening"
}
