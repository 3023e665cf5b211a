// services/streak.go - Weekly streak math
package services

import "time"

// CalculateWeeklyStreak derives the new streak value from the ISO week
// numbers of the new completion and the previous play. Same week keeps the
// streak, the directly following week extends it, anything else restarts
// at 1. Week numbers reset at year rollover, which reads as a gap and
// restarts the streak.
func CalculateWeeklyStreak(currentDate, lastPlayedDate time.Time, currentStreak int) int {
	if lastPlayedDate.IsZero() {
		return 1
	}

	_, currentWeek := currentDate.ISOWeek()
	_, lastWeek := lastPlayedDate.ISOWeek()

	switch {
	case currentWeek == lastWeek:
		return currentStreak
	case currentWeek == lastWeek+1:
		return currentStreak + 1
	default:
		return 1
	}
}
