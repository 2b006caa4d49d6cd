package router

import (
	"net/http"

	"starlink_crm_backend/internal/handlers"
	"starlink_crm_backend/internal/repositories"
	"starlink_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Setup wires repositories, services and handlers over db and registers every
// application route on engine.
func Setup(engine *gin.Engine, db *sqlx.DB, maxClients int) {
	// Initialize Repositories
	clientRepo := repositories.NewClientRepository(db)

	// Initialize Services
	clientService := services.NewClientService(clientRepo, db, maxClients, nil)

	// Initialize Handlers
	clientHandler := handlers.NewClientHandler(clientService)
	reminderHandler := handlers.NewReminderHandler(clientService)

	RegisterRoutes(engine, clientHandler, reminderHandler)
}

// RegisterRoutes mounts the health check and the /api routes.
func RegisterRoutes(engine *gin.Engine, clientHandler *handlers.ClientHandler, reminderHandler *handlers.ReminderHandler) {
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := engine.Group("/api")
	SetupClientRoutes(api, clientHandler)
	SetupReminderRoutes(api, reminderHandler)
}
