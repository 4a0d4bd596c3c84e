package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myportfolify/backend/config"
	"github.com/myportfolify/backend/internal/api"
	"github.com/myportfolify/backend/internal/database"
	"github.com/myportfolify/backend/internal/middleware"
)

// SetupRouter configures the application routes.
func SetupRouter(
	cfg *config.Config,
	authHandler *api.AuthHandler,
	profileHandler *api.ProfileHandler,
	adminHandler *api.AdminHandler,
	sessions middleware.SessionVerifier,
	db *database.Database,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Account lifecycle
	router.POST("/register", authHandler.Register)
	router.GET("/verify-email/:token", authHandler.VerifyEmail)
	router.POST("/login", authHandler.Login)
	router.GET("/auth/google", authHandler.GoogleLogin)
	router.GET("/auth/google/callback", authHandler.GoogleCallback)
	router.POST("/forgot-password", authHandler.ForgotPassword)
	router.POST("/reset-password/:token", authHandler.ResetPassword)
	router.POST("/resend-verification", authHandler.ResendVerification)
	router.GET("/check-auth", authHandler.CheckAuth)

	// Profile routes. Username lookup and the public portfolio document need
	// no session; everything under /me does.
	profiles := router.Group("/api/profiles")
	{
		profiles.GET("/check-username", profileHandler.CheckUsername)
		profiles.GET("/:username", profileHandler.GetPublicProfile)

		authed := profiles.Group("")
		authed.Use(middleware.AuthMiddleware(sessions))
		{
			authed.POST("", profileHandler.CreateProfile)
			authed.GET("/me", profileHandler.GetMyProfile)
			authed.PUT("/me/profile", profileHandler.UpdateProfile)
			authed.PUT("/me/template", profileHandler.UpdateTemplate)
			authed.POST("/me/projects", profileHandler.AddProject)
			authed.PUT("/me/projects/:projectId", profileHandler.UpdateProject)
			authed.DELETE("/me/projects/:projectId", profileHandler.DeleteProject)
		}
	}

	router.POST("/logout", middleware.AuthMiddleware(sessions), authHandler.Logout)

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(sessions), middleware.RequireAdmin(cfg))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users/:id/action", adminHandler.UserAction)
		admin.POST("/profiles/:id/action", adminHandler.ProfileAction)
	}

	return router
}
