package models

import "time"

// AvailabilityDay holds a gardener's bookable hours for one calendar date.
// Hours absent from AvailableHours are unavailable; booked hours are removed
// from the pool rather than flagged.
type AvailabilityDay struct {
	GardenerID     string    `bson:"gardenerId" json:"gardenerId"`
	Date           string    `bson:"date" json:"date"` // "2006-01-02"
	AvailableHours []int     `bson:"availableHours" json:"availableHours"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// HourSet returns the day's availability as an hour-keyed lookup.
func (d AvailabilityDay) HourSet() map[int]bool {
	set := make(map[int]bool, len(d.AvailableHours))
	for _, h := range d.AvailableHours {
		set[h] = true
	}
	return set
}
