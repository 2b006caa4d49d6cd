package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"starlink_crm_backend/internal/handlers"
	"starlink_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(apiGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := apiGroup.Group("/clients")
	{
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}

// SetupReminderRoutes sets up the reminder routes.
func SetupReminderRoutes(apiGroup *gin.RouterGroup, reminderHandler *handlers.ReminderHandler) {
	apiGroup.GET("/reminders", reminderHandler.GetReminders)
}

// SetupFrontendRoutes serves a built single-page frontend from staticDir.
// Unknown non-API paths fall back to index.html so client-side routing works.
func SetupFrontendRoutes(engine *gin.Engine, staticDir string) {
	indexFile := filepath.Join(staticDir, "index.html")

	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, "Not found"))
			return
		}

		requested := filepath.Join(staticDir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			c.File(requested)
			return
		}
		c.File(indexFile)
	})
}
