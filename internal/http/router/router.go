package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobmarket-backend/internal/config"
	"github.com/ignatzorin/jobmarket-backend/internal/http/handlers"
	"github.com/ignatzorin/jobmarket-backend/internal/http/middleware"
	"github.com/ignatzorin/jobmarket-backend/internal/models"
	"github.com/ignatzorin/jobmarket-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	jobHandler *handlers.JobHandler,
	quoteHandler *handlers.QuoteHandler,
	agreementHandler *handlers.AgreementHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	paymentHandler *handlers.PaymentHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Публичные маршруты
	api.GET("/jobs", jobHandler.ListJobs)
	api.GET("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.GetJob)
	api.GET("/subscriptions/plans", subscriptionHandler.ListPlans)
	api.GET("/ws", wsHandler.Handle)

	// Webhook шлюза не требует авторизации, но ограничен по частоте.
	webhookRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/subscriptions/payment/webhook", webhookRateLimit, subscriptionHandler.Webhook)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		// Заказы — размещение и отмена доступны только компаниям.
		company := protected.Group("/")
		company.Use(middleware.RequireRole(models.RoleCompany))
		{
			company.POST("/jobs", jobHandler.CreateJob)
			company.POST("/jobs/:id/cancel", middleware.UUIDValidator("id"), jobHandler.CancelJob)
			company.GET("/jobs/:id/quotes", middleware.UUIDValidator("id"), quoteHandler.ListJobQuotes)
			company.POST("/jobs/:id/select", middleware.UUIDValidator("id"), agreementHandler.SelectFreelancer)
			company.POST("/agreements", agreementHandler.CreateAgreement)
			company.POST("/jobs/:id/payment", middleware.UUIDValidator("id"), paymentHandler.CreateJobPayment)
			company.POST("/jobs/payment/capture", paymentHandler.CaptureJobPayment)

			company.GET("/subscriptions/active", subscriptionHandler.GetActive)
			company.GET("/subscriptions/my", subscriptionHandler.ListMy)
			company.POST("/subscriptions/payment", subscriptionHandler.CreatePayment)
			company.GET("/subscriptions/payment/execute", subscriptionHandler.ExecutePayment)
		}

		// Отклики — только фрилансеры.
		freelancer := protected.Group("/")
		freelancer.Use(middleware.RequireRole(models.RoleFreelancer))
		{
			freelancer.POST("/jobs/:id/quotes", middleware.UUIDValidator("id"), quoteHandler.SubmitQuote)
			freelancer.GET("/quotes/my", quoteHandler.ListMyQuotes)
		}

		// Соглашения доступны обеим сторонам.
		protected.POST("/agreements/:id/accept", middleware.UUIDValidator("id"), agreementHandler.AcceptAgreement)
		protected.POST("/agreements/:id/reject", middleware.UUIDValidator("id"), agreementHandler.RejectAgreement)
		protected.GET("/agreements/my", agreementHandler.ListMyAgreements)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
	}

	return r
}
