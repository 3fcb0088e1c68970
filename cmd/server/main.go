package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"taskhero/config"
	"taskhero/db"
	"taskhero/events"
	"taskhero/internal/ratelimit"
	"taskhero/middlewares"
	"taskhero/progression"
	"taskhero/routes"
	"taskhero/services"
	"taskhero/utils"
	"taskhero/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to MongoDB using the URI from the configuration
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	// Seed the static challenge catalog
	utils.SeedChallengeData()

	evaluator := progression.NewEvaluator(nil)
	dispatcher := events.NewDispatcher()

	push := services.InitPushService(cfg.Push.Endpoint)
	services.InitAuthService(db.MongoDatabase, evaluator, cfg.JWT.Secret, cfg.JWT.ExpiryMinutes)
	services.InitTaskService(db.MongoDatabase, evaluator, dispatcher)
	challengeService := services.InitChallengeService(db.MongoDatabase, push)
	dispatcher.Register(challengeService)
	services.InitDecayService(db.MongoDatabase, evaluator, cfg.Decay.HungerPerHour, cfg.Decay.StarvingHealthLoss)
	services.InitNotificationService(db.MongoDatabase, push)

	// The websocket package validates tokens through this hook to avoid
	// importing services.
	websocket.TokenValidator = services.GetAuthService().ParseToken

	limiter, err := ratelimit.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, 30, time.Minute)
	if err != nil {
		log.Fatalf("Failed to set up rate limiter: %v", err)
	}

	if cfg.Scheduler.Enabled {
		scheduler := services.NewSchedulerService()
		mustAddJob(scheduler, "decay", time.Hour, services.GetDecayService().Run)
		mustAddJob(scheduler, "due-soon", 10*time.Minute, services.GetNotificationService().CheckDueSoon)
		mustAddJob(scheduler, "starving", time.Hour, services.GetNotificationService().CheckStarving)
		mustAddJob(scheduler, "streak-at-risk", 12*time.Hour, services.GetNotificationService().CheckStreakAtRisk)
		mustAddJob(scheduler, "daily-summary", 24*time.Hour, services.GetNotificationService().DailySummary)
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Set up the Gin router and configure routes
	router := setupRouter(limiter)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func mustAddJob(scheduler *services.SchedulerService, name string, interval time.Duration, job func(ctx context.Context)) {
	if err := scheduler.AddInterval(name, interval, job); err != nil {
		log.Fatalf("Failed to register job %q: %v", name, err)
	}
}

func setupRouter(limiter *ratelimit.Limiter) *gin.Engine {
	router := gin.Default()

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Configure CORS for the mobile client's dev server
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8081", "http://localhost:19006"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	// Public routes for authentication
	router.POST("/signup", routes.SignUpRouteHandler)
	router.POST("/login", routes.LoginRouteHandler)

	// Protected routes (JWT auth)
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", routes.GetProfileRouteHandler)
		auth.POST("/profile/pushtoken", routes.RegisterPushTokenRouteHandler)
		auth.GET("/challenges", routes.GetChallengesRouteHandler)
		auth.GET("/leaderboard", routes.GetLeaderboardRouteHandler)

		auth.GET("/tasks", routes.ListTasksRouteHandler)

		// Writes go through the per-user rate limit
		writes := auth.Group("/")
		writes.Use(middlewares.RateLimitMiddleware(limiter, "task-write"))
		{
			writes.POST("/tasks", routes.CreateTaskRouteHandler)
			writes.PUT("/tasks/:id/status", routes.UpdateTaskStatusRouteHandler)
			writes.POST("/tasks/:id/complete", routes.CompleteTaskRouteHandler)
		}

		// Progress event stream
		auth.GET("/ws", websocket.ProgressWebSocketHandler)
	}

	return router
}
