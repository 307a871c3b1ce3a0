package routes

import (
	"github.com/mdAli87/ISF-admin/controllers"
	"github.com/mdAli87/ISF-admin/middlewares"
	"github.com/mdAli87/ISF-admin/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries the constructed services the router wires into controllers.
type Deps struct {
	Registry   *services.DeviceRegistry
	Store      *services.NotificationStore
	Provider   services.Provider
	TemplateID string
	Training   *services.TrainingService
	Trainers   *services.TrainerService
	Documents  *services.DocumentService
	Analytics  *services.AnalyticsService
	Hub        *services.RealtimeHub
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Browser-facing dispatch function; permissive CORS, answers OPTIONS
	// preflight for cross-origin calls.
	dispatchCtl := controllers.NewDispatchController(d.Provider, d.TemplateID)
	fn := r.Group("/functions")
	fn.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"POST", "OPTIONS"},
		AllowHeaders:    []string{"authorization", "x-client-info", "apikey", "content-type"},
	}))
	{
		fn.POST("/notify", dispatchCtl.Notify)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
	}

	deviceCtl := controllers.NewDeviceController(d.Registry)
	devices := r.Group("/devices")
	devices.Use(middlewares.AuthMiddleware())
	{
		devices.POST("/register", deviceCtl.Register)
		devices.POST("/deactivate", deviceCtl.Deactivate)
	}

	trainingCtl := controllers.NewTrainingController(d.Training)
	trainings := r.Group("/trainings")
	trainings.Use(middlewares.AuthMiddleware())
	{
		trainings.POST("", trainingCtl.Schedule)
		trainings.GET("", trainingCtl.List)
		trainings.GET("/:id", trainingCtl.Get)
		trainings.PUT("/:id", trainingCtl.Update)
		trainings.DELETE("/:id", trainingCtl.Delete)
	}

	trainerCtl := controllers.NewTrainerController(d.Trainers)
	trainers := r.Group("/trainers")
	trainers.Use(middlewares.AuthMiddleware())
	{
		trainers.POST("", trainerCtl.Create)
		trainers.GET("", trainerCtl.List)
		trainers.PUT("/:id", trainerCtl.Update)
		trainers.DELETE("/:id", trainerCtl.Deactivate)
	}

	documentCtl := controllers.NewDocumentController(d.Documents)
	documents := r.Group("/documents")
	documents.Use(middlewares.AuthMiddleware())
	{
		documents.POST("", documentCtl.Upload)
		documents.GET("", documentCtl.List)
		documents.GET("/:id", documentCtl.Get)
		documents.DELETE("/:id", documentCtl.Delete)
	}

	notificationCtl := controllers.NewNotificationController(d.Store)
	notifications := r.Group("/notifications")
	notifications.Use(middlewares.AuthMiddleware())
	{
		notifications.GET("", notificationCtl.List)
	}

	analyticsCtl := controllers.NewAnalyticsController(d.Analytics)
	analytics := r.Group("/analytics")
	analytics.Use(middlewares.AuthMiddleware())
	{
		analytics.GET("/activity", analyticsCtl.GetMonthlyActivity)
		analytics.GET("/categories", analyticsCtl.GetCategoryDistribution)
		analytics.GET("/weekly", analyticsCtl.GetWeeklyTrends)
		analytics.GET("/upcoming", analyticsCtl.GetUpcomingTrainings)
		analytics.GET("/deliveries", analyticsCtl.GetDeliveryStats)
	}

	realtimeCtl := controllers.NewRealtimeController(d.Hub)
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/notifications", realtimeCtl.NotificationsWS)
	}

	return r
}
