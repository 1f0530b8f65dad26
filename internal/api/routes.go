package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/core"
	"campustrace-backend-go/internal/middleware"
)

// Services groups the core services the routes dispatch to.
type Services struct {
	Items    core.ItemService
	Saved    core.SavedService
	Users    core.UserService
	Sessions *core.SessionBroker
}

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (request ID, logging, recovery, CORS) is applied in main.
func SetupRoutes(router *gin.Engine, authMW *middleware.AuthMiddleware, svc Services, logger *zap.Logger) {
	itemHandler := NewItemHandler(svc.Items, svc.Saved, logger)
	userHandler := NewUserHandler(svc.Users, logger)
	sessionHandler := NewSessionHandler(svc.Sessions, 25*time.Second)
	requireAuth := authMW.VerifyToken()

	apiV1 := router.Group("/api/v1")
	{
		items := apiV1.Group("/items")
		{
			items.GET("", itemHandler.ListItems)
			items.GET("/:itemId", itemHandler.GetItem)
			items.GET("/:itemId/matches", itemHandler.GetMatches)

			items.POST("", requireAuth, itemHandler.ReportItem)
			items.PATCH("/:itemId/resolve", requireAuth, itemHandler.ResolveItem)
			items.POST("/:itemId/save", requireAuth, itemHandler.ToggleSave)
			items.GET("/:itemId/save", requireAuth, itemHandler.GetSaveState)
		}

		me := apiV1.Group("/me", requireAuth)
		{
			me.GET("/items", itemHandler.ListMyItems)
			me.GET("/saved", itemHandler.ListSaved)
		}

		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", userHandler.Register)
			authGroup.POST("/signout", requireAuth, userHandler.SignOut)
		}

		users := apiV1.Group("/users", requireAuth)
		{
			users.POST("/initialize", userHandler.InitializeUserProfile)
			users.GET("/me", userHandler.GetCurrentUserProfile)
		}

		apiV1.GET("/session/stream", requireAuth, sessionHandler.Stream)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "CampusTrace backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
