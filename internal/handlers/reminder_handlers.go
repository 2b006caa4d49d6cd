package handlers

import (
	"net/http"

	"starlink_crm_backend/internal/services"
	"starlink_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReminderHandler serves subscription renewal reminders.
type ReminderHandler struct {
	clientService services.ClientService
}

func NewReminderHandler(cs services.ClientService) *ReminderHandler {
	return &ReminderHandler{clientService: cs}
}

// GetReminders returns the reminders due today. They are recomputed on every
// request; callers dedupe if needed.
func (h *ReminderHandler) GetReminders(c *gin.Context) {
	reminders, err := h.clientService.Reminders(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetReminders: Error from clientService.Reminders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, "Database error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}
