package api

import (
	"log/slog"
	"net/http"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	// swaggerFiles "github.com/swaggo/files"
	// ginSwagger "github.com/swaggo/gin-swagger"
)

// Services are the dependencies of the HTTP layer.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Courses   service.CourseService
	Stats     service.StatsService
	Workouts  service.WorkoutService
	Nutrition service.NutritionService
	Media     service.MediaService
}

type Options struct {
	Logger      *slog.Logger
	Production  bool   // hides internal error details
	MetricsPath string // empty disables the metrics endpoint
	Title       string // admin panel title
}

// SetupRoutes installs the middleware chain and every route on router.
func SetupRoutes(router *gin.Engine, services Services, opts Options) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	RegisterValidators()
	router.SetHTMLTemplate(adminTemplates)

	router.Use(RequestID(), RequestLogger(opts.Logger), ExposeErrors(!opts.Production))
	if opts.MetricsPath != "" {
		router.Use(Metrics())
		router.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	authHandler := NewAuthHandler(services.Auth)
	userHandler := NewUserHandler(services.Users)
	courseHandler := NewCourseHandler(services.Courses)
	statsHandler := NewStatsHandler(services.Stats)
	workoutHandler := NewWorkoutHandler(services.Workouts)
	nutritionHandler := NewNutritionHandler(services.Nutrition)
	mediaHandler := NewMediaHandler(services.Media)
	adminHandler := NewAdminHandler(opts.Title)

	authMiddleware := AuthMiddleware(services.Auth)
	manageCourses := RequireCapability(domain.CapManageCourses)
	interact := RequireCapability(domain.CapInteractWithCourses)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	admin := router.Group(adminBasePath)
	{
		admin.GET("", adminHandler.Index)
		admin.GET("/login", adminHandler.Login)
		admin.GET("/trainer", adminHandler.Trainer)
	}

	apiGroup := router.Group(apiBasePath)

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/profile", authMiddleware, authHandler.Profile)
	}

	userGroup := apiGroup.Group("/users", authMiddleware, RequireCapability(domain.CapManageAccount))
	{
		userGroup.PUT("/profile", userHandler.UpdateProfile)
		userGroup.PUT("/password", userHandler.ChangePassword)
		userGroup.GET("/stats", userHandler.GetStats)
	}

	// --- Course Routes ---
	courseGroup := apiGroup.Group("/courses")
	{
		// Public catalogue
		courseGroup.GET("", courseHandler.ListCourses)
		courseGroup.GET("/:id", courseHandler.GetCourse)

		// Trainer authoring; ownership is checked by the service
		courseGroup.POST("", authMiddleware, manageCourses, courseHandler.CreateCourse)
		courseGroup.PUT("/:id", authMiddleware, manageCourses, courseHandler.UpdateCourse)
		courseGroup.DELETE("/:id", authMiddleware, manageCourses, courseHandler.DeleteCourse)

		// User interactions
		courseGroup.POST("/:id/enroll", authMiddleware, interact, courseHandler.Enroll)
		courseGroup.PUT("/:id/enrollment", authMiddleware, interact, courseHandler.UpdateEnrollment)
		courseGroup.POST("/:id/reviews", authMiddleware, interact, courseHandler.AddReview)
		courseGroup.POST("/:id/like", authMiddleware, interact, courseHandler.ToggleLike)

		// Media; downloads are open to the owner and enrolled users
		courseGroup.POST("/:id/media/upload-url", authMiddleware, manageCourses, mediaHandler.RequestUploadURL)
		courseGroup.POST("/:id/media", authMiddleware, manageCourses, mediaHandler.ConfirmUpload)
		courseGroup.GET("/:id/media/:uploadId", authMiddleware, mediaHandler.GetDownloadURL)
	}

	statsGroup := apiGroup.Group("/stats", authMiddleware, RequireCapability(domain.CapViewTrainerStats))
	{
		statsGroup.GET("/trainer", statsHandler.GetTrainerStats)
		statsGroup.GET("/courses/:courseId", statsHandler.GetCourseStats)
	}

	track := RequireCapability(domain.CapTrackFitness)

	workoutGroup := apiGroup.Group("/workouts", authMiddleware, track)
	{
		workoutGroup.POST("", workoutHandler.CreateWorkout)
		workoutGroup.GET("", workoutHandler.ListWorkouts)
		workoutGroup.GET("/:id", workoutHandler.GetWorkout)
		workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
		workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
	}

	nutritionGroup := apiGroup.Group("/nutrition", authMiddleware, track)
	{
		nutritionGroup.POST("", nutritionHandler.CreateMeal)
		nutritionGroup.GET("", nutritionHandler.ListMeals)
		nutritionGroup.GET("/stats/summary", nutritionHandler.GetStats)
		nutritionGroup.GET("/:id", nutritionHandler.GetMeal)
		nutritionGroup.PUT("/:id", nutritionHandler.UpdateMeal)
		nutritionGroup.DELETE("/:id", nutritionHandler.DeleteMeal)
	}
}
