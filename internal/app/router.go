// internal/app/router.go
package app

import (
	"time"

	adminHandler "humanizer-service/internal/handlers/admin"
	authHandler "humanizer-service/internal/handlers/auth"
	subscriptionHandler "humanizer-service/internal/handlers/subscription"
	textHandler "humanizer-service/internal/handlers/text"
	userHandler "humanizer-service/internal/handlers/user"
	"humanizer-service/internal/middleware"
	"humanizer-service/internal/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler         *authHandler.AuthHandler
	UserHandler         *userHandler.UserHandler
	TextHandler         *textHandler.TextHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	AdminHandler        *adminHandler.AdminHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimiter         *ratelimit.Limiter
	HumanizeRateLimit   int64
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Plan Catalog (public) ====================
	api.GET("/subscriptions", h.SubscriptionHandler.ListPlans)

	// ==================== Users ====================
	users := api.Group("/users")
	users.Use(h.AuthMiddleware.Auth())
	{
		users.GET("/me", h.UserHandler.GetMe)
		users.PUT("/me", h.UserHandler.UpdateMe)
		users.GET("/credits", h.UserHandler.GetCredits)
		users.GET("/statistics", h.UserHandler.GetStatistics)
	}

	// ==================== Text Humanization ====================
	text := api.Group("/text")
	text.Use(h.AuthMiddleware.Auth())
	{
		text.POST("/humanize",
			middleware.RateLimit(h.RateLimiter, logger, "humanize", h.HumanizeRateLimit, time.Minute),
			h.TextHandler.Humanize)
		text.GET("/history", h.TextHandler.History)
		text.GET("/:id", h.TextHandler.Get)
	}

	// ==================== Subscriptions ====================
	subs := api.Group("/subscriptions")
	subs.Use(h.AuthMiddleware.Auth())
	{
		subs.GET("/current", h.SubscriptionHandler.GetCurrent)
		subs.POST("", h.SubscriptionHandler.ChangePlan)
		subs.PUT("/:id", h.SubscriptionHandler.Update)
	}

	// ==================== Admin ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		admin.GET("/users", h.AdminHandler.ListUsers)
		admin.GET("/users/:id", h.AdminHandler.GetUser)
		admin.POST("/users/:id/promote", h.AdminHandler.PromoteUser)
		admin.GET("/stats", h.AdminHandler.GetStats)
	}
}
