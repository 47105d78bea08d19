package router

import (
	"github.com/gin-gonic/gin"
	"github.com/saulmartinx/wolk/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	healthHandler := handler.NewHealthHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	swipeHandler := handler.NewSwipeHandler(deps)
	authHandler := handler.NewAuthHandler(deps)
	paymentHandler := handler.NewPaymentHandler(deps)
	transactionHandler := handler.NewTransactionHandler(deps)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		jobs := api.Group("/jobs")
		{
			// GET /api/jobs - List jobs, optionally by category
			jobs.GET("", jobHandler.ListJobs)

			// GET /api/jobs/:job_id - Get job details
			jobs.GET("/:job_id", jobHandler.GetJob)
		}

		api.GET("/categories", jobHandler.ListCategories)

		api.POST("/swipe", swipeHandler.RecordSwipe)

		api.POST("/pi/auth", authHandler.PiAuth)

		payments := api.Group("/payments")
		{
			// POST /api/payments/approve - Approve a payment with the Pi platform
			payments.POST("/approve", paymentHandler.ApprovePayment)

			// POST /api/payments/complete - Verify and complete a payment
			payments.POST("/complete", paymentHandler.CompletePayment)

			// POST /api/payments/incomplete - Reconcile a payment reported as incomplete
			payments.POST("/incomplete", paymentHandler.HandleIncomplete)
		}

		api.GET("/transactions", transactionHandler.ListTransactions)
	}

	return r
}
