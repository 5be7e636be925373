package models

import "time"

// BookingStatus is the lifecycle state of a booking row.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingExpired   BookingStatus = "expired"
	BookingCompleted BookingStatus = "completed"
)

// Booking is one row of a broadcast job. A broadcast creates one pending row
// per eligible gardener; exactly one of them may become confirmed.
type Booking struct {
	ID            string        `bson:"id" json:"id"`
	BroadcastID   string        `bson:"broadcastId" json:"broadcastId"`
	ClientID      string        `bson:"clientId" json:"clientId"`
	GardenerID    string        `bson:"gardenerId" json:"gardenerId"`
	ServiceID     string        `bson:"serviceId" json:"serviceId"`
	Date          string        `bson:"date" json:"date"` // "2006-01-02"
	StartHour     int           `bson:"startHour" json:"startHour"`
	DurationHours int           `bson:"durationHours" json:"durationHours"`
	Status        BookingStatus `bson:"status" json:"status"`
	TotalPrice    float64       `bson:"totalPrice" json:"totalPrice"`
	ExpiresAt     time.Time     `bson:"expiresAt" json:"expiresAt"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	ConfirmedAt   time.Time     `bson:"confirmedAt,omitzero" json:"confirmedAt,omitzero"`
}

// EndHour returns the exclusive end hour of the booking.
func (b Booking) EndHour() int {
	return b.StartHour + b.DurationHours
}

// OccupiesHour reports whether the booking covers the given hour.
func (b Booking) OccupiesHour(hour int) bool {
	return hour >= b.StartHour && hour < b.EndHour()
}
