package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-orders/internal/auth"
	"github.com/ignatzorin/freelance-orders/internal/config"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/http/middleware"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/handler"
)

func SetupRouter(
	cfg *config.Config,
	tokens *auth.TokenManager,
	healthHandler *handler.HealthHandler,
	projectHandler *handler.ProjectHandler,
	orderHandler *handler.OrderHandler,
	milestoneHandler *handler.MilestoneHandler,
	disputeHandler *handler.DisputeHandler,
	gigHandler *handler.GigHandler,
	accountHandler *handler.AccountHandler,
	paymentHandler *handler.PaymentHandler,
	wsHandler *handler.WSHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Вебхук подписан провайдером, JWT здесь нет.
	api.POST("/payments/webhook", middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod), paymentHandler.Webhook)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	// Мутирующие запросы ограничиваются по пользователю.
	limited := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	byID := middleware.UUIDValidator("id")

	protected.GET("/ws", wsHandler.Handle)

	projects := protected.Group("/projects")
	{
		projects.POST("", limited, middleware.RequireRole(valueobject.RoleClient), projectHandler.Create)
		projects.GET("/:id", byID, projectHandler.Get)
		projects.GET("/:id/bids", byID, projectHandler.ListBids)
		projects.POST("/:id/bid", byID, limited, middleware.RequireRole(valueobject.RoleFreelancer), projectHandler.PlaceBid)
		projects.POST("/:id/select", byID, limited, projectHandler.Select)
		projects.POST("/:id/close", byID, limited, projectHandler.Close)
	}

	orders := protected.Group("/orders")
	{
		orders.GET("", orderHandler.List)
		orders.GET("/:id", byID, orderHandler.Get)
		orders.POST("/:id/deliver", byID, limited, orderHandler.Deliver)
		orders.POST("/:id/revision", byID, limited, orderHandler.RequestRevision)
		orders.POST("/:id/approve", byID, limited, orderHandler.Approve)

		byMilestone := middleware.UUIDValidator("id", "milestoneId")
		orders.GET("/:id/milestones", byID, milestoneHandler.List)
		orders.POST("/:id/milestones", byID, limited, milestoneHandler.Create)
		orders.POST("/:id/milestones/:milestoneId/deliver", byMilestone, limited, milestoneHandler.Deliver)
		orders.POST("/:id/milestones/:milestoneId/approve", byMilestone, limited, milestoneHandler.Approve)
	}

	disputes := protected.Group("/disputes")
	{
		disputes.POST("/:id", byID, limited, disputeHandler.Open)
		disputes.GET("/:id", byID, disputeHandler.Get)
		disputes.POST("/:id/resolve", byID, limited, middleware.RequireRole(valueobject.RoleAdmin), disputeHandler.Resolve)
		disputes.POST("/:id/withdraw", byID, limited, disputeHandler.Withdraw)
		disputes.POST("/:id/evidence", byID, limited, disputeHandler.UploadEvidence)
	}

	gigs := protected.Group("/gigs")
	{
		gigs.POST("", limited, middleware.RequireRole(valueobject.RoleFreelancer), gigHandler.Create)
		gigs.GET("/:id", byID, gigHandler.Get)
		gigs.POST("/:id/purchase", byID, limited, middleware.RequireRole(valueobject.RoleClient), gigHandler.Purchase)
	}

	protected.GET("/transactions", accountHandler.Transactions)

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", accountHandler.Notifications)
		notifications.POST("/:id/read", byID, accountHandler.MarkNotificationRead)
	}

	return r
}
