package handlers

import (
	"errors"
	"net/http"

	"starlink_crm_backend/internal/services"
	"starlink_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// GetClients handles fetching one page of clients, newest first.
func (h *ClientHandler) GetClients(c *gin.Context) {
	page := utils.StrToIntOrDefault(c.Query("page"), services.DefaultPage)
	limit := utils.StrToIntOrDefault(c.Query("limit"), services.DefaultPageSize)

	result, err := h.clientService.ListClients(c.Request.Context(), page, limit)
	if err != nil {
		if errors.Is(err, services.ErrClientValidation) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		utils.LogError(err, "GetClients: Error from clientService.ListClients")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, "Failed to fetch clients"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, "Client not found"))
			return
		}
		utils.LogError(err, "GetClientByID: Error from clientService.GetClient for ID "+utils.Int64ToStr(clientID))
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, "Failed to fetch client"))
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.ClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	id, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCapacityReached), errors.Is(err, services.ErrClientValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "CreateClient: Error from clientService.CreateClient")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, "Failed to create client"))
		}
		return
	}

	utils.LogInfo("Client created", map[string]interface{}{"client_id": id})
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Client created successfully"})
}

// UpdateClient handles replacing all mutable fields of a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	var req services.ClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateClient: Failed to bind JSON for ID "+utils.Int64ToStr(clientID))
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.clientService.UpdateClient(c.Request.Context(), clientID, req); err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, "Client not found"))
		case errors.Is(err, services.ErrClientValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "UpdateClient: Error from clientService.UpdateClient for ID "+utils.Int64ToStr(clientID))
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, "Failed to update client"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client updated successfully"})
}

// DeleteClient handles deleting a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, "Client not found"))
			return
		}
		utils.LogError(err, "DeleteClient: Error from clientService.DeleteClient for ID "+utils.Int64ToStr(clientID))
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, "Failed to delete client"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// parseClientID reads the :id path parameter, responding 400 when it is not
// a positive integer.
func parseClientID(c *gin.Context) (int64, bool) {
	clientID, err := utils.StrToInt64(c.Param("id"))
	if err != nil || clientID <= 0 {
		utils.RespondValidationFailed(c, "Invalid client ID format")
		return 0, false
	}
	return clientID, true
}
