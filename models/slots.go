package models

// MergedSlot is a contiguous bookable window together with every gardener
// able to fulfill it. Computed fresh per query, never persisted. GardenerIDs
// keeps insertion order; callers must not assume any sorting.
type MergedSlot struct {
	StartHour   int      `json:"startHour"`
	EndHour     int      `json:"endHour"`
	GardenerIDs []string `json:"gardenerIds"`
}

// DayAvailability pairs a date with its merged slots.
type DayAvailability struct {
	Date  string       `json:"date"`
	Slots []MergedSlot `json:"slots"`
}

// Rejection reasons for a booking sequence check. These are user-facing
// control flow, not errors.
const (
	ReasonDirectConflict = "direct_conflict"
	ReasonBufferConflict = "buffer_conflict"
)

// BookingCheck is the structured result of asking whether a contiguous
// sequence of hours can be booked.
type BookingCheck struct {
	CanBook bool   `json:"canBook"`
	Reason  string `json:"reason,omitempty"`
}
