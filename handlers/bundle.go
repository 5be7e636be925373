// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Client booking flow.
	SearchAvailability gin.HandlerFunc
	NextAvailableDays  gin.HandlerFunc
	BroadcastBooking   gin.HandlerFunc

	// Gardener booking flow.
	AcceptBooking      gin.HandlerFunc
	DeclineBooking     gin.HandlerFunc
	PendingBookings    gin.HandlerFunc
	SuggestAlternative gin.HandlerFunc

	// Gardener availability management.
	GetAvailability gin.HandlerFunc
	SetAvailability gin.HandlerFunc

	// Recurring schedule management.
	GetScheduleTemplates gin.HandlerFunc
	SaveScheduleTemplate gin.HandlerFunc
	SaveScheduleSettings gin.HandlerFunc
	RegenerateSchedule   gin.HandlerFunc
}
