package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/collabhub/collabhub-api/internal/config"
	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/database"
	"github.com/collabhub/collabhub-api/internal/handlers"
	"github.com/collabhub/collabhub-api/internal/logger"
	"github.com/collabhub/collabhub-api/internal/middleware"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/collabhub/collabhub-api/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	tokens, err := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create session store")
	}
	store.Options(handlers.RefreshSessionOptions(cfg.JWT.RefreshTokenTTL, cfg.IsRelease()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := newRouter(ctx, cfg, tokens, store)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}

func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.Session.Store == "cookie" {
		return cookie.NewStore([]byte(cfg.Session.Secret)), nil
	}

	redisAddr := cfg.Redis.Host + ":" + cfg.Redis.Port
	return redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.Session.Secret),
	)
}

func newRouter(ctx context.Context, cfg *config.Config, tokens *utils.TokenManager, store sessions.Store) *gin.Engine {
	db := database.GetDB()

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAI.APIKey != "" {
		aiService = services.NewAIService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	// Services
	notificationService := services.NewNotificationService(notificationRepo)
	authService := services.NewAuthService(userRepo, tokenRepo, tokens, cfg.JWT.RefreshTokenTTL)
	projectService := services.NewProjectService(projectRepo, memberRepo, skillRepo, notificationService, aiService)
	membershipService := services.NewMembershipService(projectRepo, memberRepo, userRepo, notificationService)
	userService := services.NewUserService(userRepo, skillRepo, services.NewLocalFileStorage(cfg.Upload.Dir))
	skillService := services.NewSkillService(skillRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	userHandler := handlers.NewUserHandler(userService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	skillHandler := handlers.NewSkillHandler(skillService)

	r := gin.New()
	r.Use(
		logger.GinRecovery(),
		middleware.RequestID(),
		middleware.Metrics(),
		logger.GinLogger(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "CollabHub API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(services.UploadURLPrefix, cfg.Upload.Dir)

	requireAuth := middleware.RequireAuth(tokens)
	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		auth.Use(limiter.Middleware(), sessions.Sessions(constants.RefreshCookieName, store))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}

		api.GET("/skills", skillHandler.ListSkills)

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", requireAuth, projectHandler.CreateProject)
			projects.POST("/suggest-tasks", requireAuth, projectHandler.SuggestTasks)

			mine := projects.Group("/me", requireAuth)
			{
				mine.GET("/owned", projectHandler.ListOwnedProjects)
				mine.GET("/joined", projectHandler.ListJoinedProjects)
				mine.GET("/interested", projectHandler.ListInterestedProjects)
			}

			project := projects.Group("/:id", middleware.RequireProjectID())
			{
				project.GET("", projectHandler.GetProject)
				project.GET("/members", membershipHandler.ListMembers)

				member := project.Group("", requireAuth)
				member.PUT("", projectHandler.UpdateProject)
				member.DELETE("", projectHandler.DeleteProject)

				member.POST("/join-requests", membershipHandler.CreateJoinRequest)
				member.GET("/join-requests", membershipHandler.ListJoinRequests)
				member.DELETE("/join-requests/me", membershipHandler.CancelJoinRequest)
				member.PUT("/join-requests/:reqId", membershipHandler.ReviewJoinRequest)
				member.GET("/join-requests/:reqId/events", membershipHandler.JoinRequestHistory)

				member.DELETE("/members/me", membershipHandler.LeaveProject)
				member.DELETE("/members/:userId", membershipHandler.RemoveMember)

				member.POST("/interest", membershipHandler.AddInterest)
				member.DELETE("/interest", membershipHandler.RemoveInterest)
				member.GET("/membership-status", membershipHandler.GetMembershipStatus)
			}
		}

		notifications := api.Group("/notifications", requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		}

		users := api.Group("/users")
		{
			users.GET("/:userId", userHandler.GetUser)

			me := users.Group("/me", requireAuth)
			me.GET("", userHandler.GetCurrentUser)
			me.PUT("", userHandler.UpdateProfile)
			me.PUT("/skills", userHandler.UpdateSkills)
			me.POST("/profile-pic", userHandler.UpdateProfilePic)
		}
	}

	return r
}
