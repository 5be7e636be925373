// File: handlers/schedule.go
package handlers

import (
	"net/http"

	scheduleRepo "verdea/database/repository/schedule"
	"verdea/models"
	"verdea/services/schedule"
	"verdea/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleHandler serves recurring-template management for gardeners.
type ScheduleHandler struct {
	Schedules scheduleRepo.ScheduleRepository
	Projector schedule.ScheduleProjector
	Logger    *zap.Logger
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(schedules scheduleRepo.ScheduleRepository, projector schedule.ScheduleProjector, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Schedules: schedules, Projector: projector, Logger: logger}
}

// GetScheduleTemplates returns the gardener's weekly rules and settings.
func (h *ScheduleHandler) GetScheduleTemplates(c *gin.Context) {
	gardenerID := c.Param("id")
	ctx := c.Request.Context()

	templates, err := h.Schedules.GetTemplates(ctx, gardenerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch templates", err.Error())
		return
	}
	if templates == nil {
		templates = []models.RecurringTemplate{}
	}
	settings, err := h.Schedules.GetSettings(ctx, gardenerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch settings", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"settings":  settings,
	})
}

// SaveScheduleTemplate replaces the weekly rules from per-day hour sets and
// regenerates the horizon.
func (h *ScheduleHandler) SaveScheduleTemplate(c *gin.Context) {
	gardenerID := c.Param("id")
	var input struct {
		// Keys are weekdays 0 (Sunday) through 6; values are available hours.
		WeeklyHours map[int][]int `json:"weeklyHours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	for day := range input.WeeklyHours {
		if day < 0 || day > 6 {
			utils.JSONError(c, http.StatusBadRequest, "weekday out of range", "")
			return
		}
	}

	if err := h.Projector.SaveTemplate(c.Request.Context(), gardenerID, input.WeeklyHours); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save template", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// SaveScheduleSettings stores projection settings for the gardener.
func (h *ScheduleHandler) SaveScheduleSettings(c *gin.Context) {
	gardenerID := c.Param("id")
	var input struct {
		WeeksToMaintain int `json:"weeksToMaintain" binding:"required,min=1,max=12"`
		MinNoticeHours  int `json:"minNoticeHours" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	existing, err := h.Schedules.GetSettings(ctx, gardenerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch settings", err.Error())
		return
	}
	settings := &models.RecurringSettings{GardenerID: gardenerID}
	if existing != nil {
		settings = existing
	}
	settings.WeeksToMaintain = input.WeeksToMaintain
	settings.MinNoticeHours = input.MinNoticeHours

	if err := h.Schedules.SaveSettings(ctx, settings); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save settings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// RegenerateSchedule rebuilds the gardener's horizon from the templates.
func (h *ScheduleHandler) RegenerateSchedule(c *gin.Context) {
	gardenerID := c.Param("id")
	force := c.Query("force") == "true"

	if err := h.Projector.Generate(c.Request.Context(), gardenerID, force); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to regenerate schedule", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "regenerated", "force": force})
}
