// File: handlers/booking.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	scheduleRepo "verdea/database/repository/schedule"
	"verdea/models"
	"verdea/services/booking"
	"verdea/services/schedule"
	"verdea/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sessionTTL bounds how long a search session stays usable for a broadcast.
const sessionTTL = 10 * time.Minute

// BookingHandler serves the client-facing search/broadcast flow and the
// gardener-facing accept/decline flow.
type BookingHandler struct {
	Resolver  booking.EligibilityResolver
	Merge     booking.MergeEngine
	Scanner   booking.HorizonScanner
	Broadcast booking.BroadcastService
	Schedules scheduleRepo.ScheduleRepository
	Cache     *redis.Client
	Logger    *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(
	resolver booking.EligibilityResolver,
	merge booking.MergeEngine,
	scanner booking.HorizonScanner,
	broadcast booking.BroadcastService,
	schedules scheduleRepo.ScheduleRepository,
	cache *redis.Client,
	logger *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		Resolver:  resolver,
		Merge:     merge,
		Scanner:   scanner,
		Broadcast: broadcast,
		Schedules: schedules,
		Cache:     cache,
		Logger:    logger,
	}
}

// bookingSession is cached between search and broadcast so the broadcast
// reuses the resolved gardener set instead of trusting the client.
type bookingSession struct {
	ClientID      string   `json:"clientId"`
	ServiceIDs    []string `json:"serviceIds"`
	Address       string   `json:"address"`
	DurationHours int      `json:"durationHours"`
	GardenerIDs   []string `json:"gardenerIds"`
}

// SearchAvailability resolves eligible gardeners for a request and returns
// merged slots for the requested date, plus a session ID for the follow-up
// broadcast.
func (h *BookingHandler) SearchAvailability(c *gin.Context) {
	var input struct {
		ClientID      string   `json:"clientId" binding:"required"`
		ServiceIDs    []string `json:"serviceIds" binding:"required,min=1"`
		Address       string   `json:"address" binding:"required"`
		Date          string   `json:"date" binding:"required"`
		DurationHours int      `json:"durationHours" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	eligible := h.Resolver.FindEligible(ctx, input.ServiceIDs, input.Address)
	if len(eligible) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"sessionId": "",
			"slots":     []models.MergedSlot{},
			"message":   "no gardeners available in your area",
		})
		return
	}

	gardenerIDs := make([]string, len(eligible))
	for i, g := range eligible {
		gardenerIDs[i] = g.ID
	}

	slots := h.Merge.ComputeMergedSlots(ctx, gardenerIDs, input.Date, input.ClientID, input.DurationHours)
	days := h.applyNotice(ctx, []models.DayAvailability{{Date: input.Date, Slots: slots}})
	if len(days) > 0 {
		slots = days[0].Slots
	} else {
		slots = []models.MergedSlot{}
	}

	session := bookingSession{
		ClientID:      input.ClientID,
		ServiceIDs:    input.ServiceIDs,
		Address:       input.Address,
		DurationHours: input.DurationHours,
		GardenerIDs:   gardenerIDs,
	}
	sessionID := uuid.New().String()
	sessionData, err := json.Marshal(session)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to marshal booking session", err.Error())
		return
	}
	if err := h.Cache.Set(ctx, sessionKey(sessionID), sessionData, sessionTTL).Err(); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cache booking session", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"gardeners": len(gardenerIDs),
		"slots":     slots,
	})
}

// NextAvailableDays scans forward from a start date and returns the first
// days with any bookable slot for the session's request.
func (h *BookingHandler) NextAvailableDays(c *gin.Context) {
	var input struct {
		SessionID  string `json:"sessionId" binding:"required"`
		StartDate  string `json:"startDate" binding:"required"`
		MaxDays    int    `json:"maxDays"`
		MaxResults int    `json:"maxResults"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.MaxDays <= 0 {
		input.MaxDays = 14
	}
	if input.MaxResults <= 0 {
		input.MaxResults = 7
	}

	ctx := c.Request.Context()
	session, err := h.loadSession(ctx, input.SessionID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", err.Error())
		return
	}
	startDate, err := time.ParseInLocation("2006-01-02", input.StartDate, time.Local)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start date", err.Error())
		return
	}

	days := h.Scanner.NextAvailableDays(ctx, session.GardenerIDs, startDate, session.ClientID,
		session.DurationHours, input.MaxDays, input.MaxResults)
	days = h.applyNotice(ctx, days)

	c.JSON(http.StatusOK, gin.H{"days": days})
}

// BroadcastBooking creates one pending booking row per gardener able to
// fulfill the chosen slot.
func (h *BookingHandler) BroadcastBooking(c *gin.Context) {
	var input struct {
		SessionID  string  `json:"sessionId" binding:"required"`
		Date       string  `json:"date" binding:"required"`
		StartHour  int     `json:"startHour" binding:"required"`
		TotalPrice float64 `json:"totalPrice"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	session, err := h.loadSession(ctx, input.SessionID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", err.Error())
		return
	}

	// Recompute the slot instead of trusting the client's gardener list.
	slots := h.Merge.ComputeMergedSlots(ctx, session.GardenerIDs, input.Date, session.ClientID, session.DurationHours)
	var chosen *models.MergedSlot
	for i := range slots {
		if slots[i].StartHour == input.StartHour {
			chosen = &slots[i]
			break
		}
	}
	if chosen == nil {
		utils.JSONError(c, http.StatusConflict, "slot no longer available", "")
		return
	}

	job := booking.JobSpec{
		ClientID:      session.ClientID,
		ServiceID:     primaryService(session.ServiceIDs),
		Date:          input.Date,
		StartHour:     input.StartHour,
		DurationHours: session.DurationHours,
		TotalPrice:    input.TotalPrice,
	}
	bookings, err := h.Broadcast.Broadcast(ctx, job, chosen.GardenerIDs)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to broadcast booking", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"broadcastId": bookings[0].BroadcastID,
		"requests":    len(bookings),
		"expiresAt":   bookings[0].ExpiresAt,
	})
}

// AcceptBooking confirms one pending row; first accept wins.
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	bookingID := c.Param("id")
	var input struct {
		GardenerID string `json:"gardenerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	confirmed, err := h.Broadcast.Accept(c.Request.Context(), bookingID, input.GardenerID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingTaken):
			utils.JSONError(c, http.StatusConflict, "booking already taken", err.Error())
		case errors.Is(err, booking.ErrBookingExpired):
			utils.JSONError(c, http.StatusGone, "booking request expired", err.Error())
		default:
			utils.JSONError(c, http.StatusUnprocessableEntity, "cannot accept booking", err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, confirmed)
}

// DeclineBooking cancels one pending row for the gardener.
func (h *BookingHandler) DeclineBooking(c *gin.Context) {
	bookingID := c.Param("id")
	var input struct {
		GardenerID string `json:"gardenerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := h.Broadcast.Decline(c.Request.Context(), bookingID, input.GardenerID); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "cannot decline booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}

// PendingBookings lists a gardener's open broadcast requests.
func (h *BookingHandler) PendingBookings(c *gin.Context) {
	gardenerID := c.Param("id")
	bookings, err := h.Broadcast.PendingForGardener(c.Request.Context(), gardenerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch pending bookings", err.Error())
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": bookings})
}

func (h *BookingHandler) loadSession(ctx context.Context, sessionID string) (*bookingSession, error) {
	data, err := h.Cache.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	var session bookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// applyNotice filters out slots inside the strictest minimum-notice window
// of the involved gardeners. Settings reads fail soft to the default notice.
func (h *BookingHandler) applyNotice(ctx context.Context, days []models.DayAvailability) []models.DayAvailability {
	notice := schedule.DefaultMinNoticeHours
	for _, day := range days {
		for _, slot := range day.Slots {
			for _, gid := range slot.GardenerIDs {
				settings, err := h.Schedules.GetSettings(ctx, gid)
				if err != nil || settings == nil {
					continue
				}
				if settings.MinNoticeHours > notice {
					notice = settings.MinNoticeHours
				}
			}
		}
	}
	return booking.FilterByNotice(days, time.Now(), notice)
}

func sessionKey(id string) string {
	return fmt.Sprintf("booking:session:%s", id)
}

func primaryService(serviceIDs []string) string {
	if len(serviceIDs) == 0 {
		return ""
	}
	return serviceIDs[0]
}
