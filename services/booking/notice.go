package booking

import (
	"time"

	"verdea/models"
)

// FilterByNotice drops slots whose start falls within minNoticeHours of now.
// The projector materializes such hours anyway; the notice rule is a read
// filter, applied here by the callers of its output.
func FilterByNotice(days []models.DayAvailability, now time.Time, minNoticeHours int) []models.DayAvailability {
	if minNoticeHours <= 0 {
		return days
	}
	earliest := now.Add(time.Duration(minNoticeHours) * time.Hour)

	filtered := make([]models.DayAvailability, 0, len(days))
	for _, day := range days {
		date, err := time.ParseInLocation("2006-01-02", day.Date, now.Location())
		if err != nil {
			continue
		}
		slots := make([]models.MergedSlot, 0, len(day.Slots))
		for _, slot := range day.Slots {
			start := date.Add(time.Duration(slot.StartHour) * time.Hour)
			if !start.Before(earliest) {
				slots = append(slots, slot)
			}
		}
		if len(slots) > 0 {
			filtered = append(filtered, models.DayAvailability{Date: day.Date, Slots: slots})
		}
	}
	return filtered
}
