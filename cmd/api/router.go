package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linq-app/linq-backend/internal/auth/delivery"
	authUsecase "github.com/linq-app/linq-backend/internal/auth/usecase"
	eventDelivery "github.com/linq-app/linq-backend/internal/event/delivery"
	nlpDelivery "github.com/linq-app/linq-backend/internal/nlp/delivery"
	"github.com/linq-app/linq-backend/pkg/apperror"
	"github.com/linq-app/linq-backend/pkg/response"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, eventHandler *eventDelivery.EventHandler, nlpHandler *nlpDelivery.NLPHandler) {
	authHandler := delivery.NewAuthHandler(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/kakao", authHandler.KakaoSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
		}

		// Event routes (protected)
		events := api.Group("/events")
		events.Use(delivery.AuthMiddleware(authUsecase))
		{
			events.GET("", eventHandler.GetEvents)
			events.POST("", eventHandler.CreateEvent)
			events.GET("/stats", eventHandler.GetStats)
			events.GET("/:id", eventHandler.GetEventByID)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)
		}

		// AI routes (protected)
		aiRoutes := api.Group("/ai")
		aiRoutes.Use(delivery.AuthMiddleware(authUsecase))
		{
			if nlpHandler != nil {
				aiRoutes.POST("/parse", nlpHandler.ParseEvent)
			} else {
				aiRoutes.POST("/parse", func(c *gin.Context) {
					response.Fail(c, apperror.New(apperror.CodeAIServiceError,
						"AI parsing is not configured", http.StatusServiceUnavailable))
				})
			}
		}
	}
}
