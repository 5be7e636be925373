// File: handlers/availability.go
package handlers

import (
	"net/http"
	"sort"

	availabilityRepo "verdea/database/repository/availability"
	"verdea/services/booking"
	"verdea/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves gardener-facing hourly availability management.
type AvailabilityHandler struct {
	Availability availabilityRepo.AvailabilityRepository
	Buffer       booking.BufferEngine
	Logger       *zap.Logger
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(availability availabilityRepo.AvailabilityRepository, buffer booking.BufferEngine, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: availability, Buffer: buffer, Logger: logger}
}

// GetAvailability returns the gardener's raw hourly availability for a date.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	gardenerID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing date query parameter", "")
		return
	}

	blocks, err := h.Availability.GetHourlyAvailability(c.Request.Context(), gardenerID, date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch availability", err.Error())
		return
	}
	hours := make([]int, 0, len(blocks))
	for hour, free := range blocks {
		if free {
			hours = append(hours, hour)
		}
	}
	sort.Ints(hours)
	c.JSON(http.StatusOK, gin.H{
		"gardenerId":     gardenerID,
		"date":           date,
		"availableHours": hours,
	})
}

// SetAvailability replaces the gardener's available hours for a date.
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	gardenerID := c.Param("id")
	var input struct {
		Date           string `json:"date" binding:"required"`
		AvailableHours []int  `json:"availableHours"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	for _, hour := range input.AvailableHours {
		if hour < booking.DayStartHour || hour >= booking.DayEndHour {
			utils.JSONError(c, http.StatusBadRequest, "hour outside working day", "")
			return
		}
	}

	if err := h.Availability.SetHourlyAvailability(c.Request.Context(), gardenerID, input.Date, input.AvailableHours); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// SuggestAlternative probes nearby start hours when a requested slot fails.
func (h *AvailabilityHandler) SuggestAlternative(c *gin.Context) {
	gardenerID := c.Param("id")
	var input struct {
		Date          string `json:"date" binding:"required"`
		StartHour     int    `json:"startHour" binding:"required"`
		DurationHours int    `json:"durationHours" binding:"required,min=1"`
		ClientID      string `json:"clientId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	suggestions := h.Buffer.SuggestAlternativeSlots(c.Request.Context(), gardenerID, input.Date,
		input.StartHour, input.DurationHours, input.ClientID)
	if suggestions == nil {
		suggestions = []int{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestedStartHours": suggestions})
}
