package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/versity-app/volunteer-api/internal/config"
	"github.com/versity-app/volunteer-api/internal/database"
	"github.com/versity-app/volunteer-api/internal/handlers"
	"github.com/versity-app/volunteer-api/internal/mailer"
	"github.com/versity-app/volunteer-api/internal/middleware"
	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/repository"
	"github.com/versity-app/volunteer-api/internal/services"
	"github.com/versity-app/volunteer-api/internal/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Initialize structured logging
	var logger *zap.Logger
	var err error
	if cfg.GinMode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database and run migrations
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.MigrateDatabase(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewVolunteerProfileRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	oppRepo := repository.NewOpportunityRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	hourRepo := repository.NewHourRepository(db)
	logRepo := repository.NewSystemLogRepository(db)

	// Initialize mail delivery; without an SMTP server emails are logged
	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		logger.Warn("SMTP_SERVER not configured, emails will be written to the log")
		mail = mailer.NewLogMailer(logger)
	}

	// Initialize services
	jwtService := utils.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	notifier := services.NewNotificationService(mail, cfg.BaseURL, logger)
	audit := services.NewSystemLogService(logRepo, logger)

	authService := services.NewAuthService(userRepo, jwtService, notifier, audit, cfg.AdminRegistrationKey, cfg.MaxAdmins, cfg.ResetTokenTTL)
	oppService := services.NewOpportunityService(oppRepo, orgRepo)
	matchService := services.NewMatchService(matchRepo, oppRepo, userRepo, notifier, audit)
	hourService := services.NewHourService(hourRepo, matchRepo, userRepo, notifier, audit)
	volunteerService := services.NewVolunteerService(userRepo, profileRepo, matchRepo, hourRepo)
	orgService := services.NewOrganizationService(orgRepo)
	adminService := services.NewAdminService(userRepo, oppRepo, matchRepo, logRepo, audit)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, volunteerService)
	oppHandler := handlers.NewOpportunityHandler(oppService)
	matchHandler := handlers.NewMatchHandler(matchService)
	hourHandler := handlers.NewHourHandler(hourService)
	volunteerHandler := handlers.NewVolunteerHandler(volunteerService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	adminHandler := handlers.NewAdminHandler(adminService)
	healthHandler := handlers.NewHealthHandler(db)

	// Initialize Gin router
	r := gin.Default()

	// CORS must run before authentication
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Root banner
	r.GET("/", healthHandler.Root)

	// API routes
	api := r.Group("/api")
	{
		// Health checks
		api.GET("/health", healthHandler.Health)
		api.GET("/health/db", healthHandler.DBHealth)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.POST("/logout", middleware.RequireAuth(jwtService), authHandler.Logout)
			auth.POST("/refresh-token", middleware.RequireAuth(jwtService), authHandler.RefreshToken)
			auth.GET("/me", middleware.RequireAuth(jwtService), authHandler.GetCurrentUser)
			auth.PUT("/me", middleware.RequireAuth(jwtService), authHandler.UpdateCurrentUser)
		}

		// Opportunity routes; browsing is public
		opps := api.Group("/opportunities")
		{
			opps.GET("", oppHandler.ListOpportunities)
			opps.GET("/:id", oppHandler.GetOpportunity)
			opps.POST("", middleware.RequireAuth(jwtService), oppHandler.CreateOpportunity)
			opps.PUT("/:id", middleware.RequireAuth(jwtService), oppHandler.UpdateOpportunity)
			opps.DELETE("/:id", middleware.RequireAuth(jwtService), oppHandler.DeleteOpportunity)
			opps.GET("/:id/candidates", middleware.RequireAuth(jwtService), matchHandler.GetCandidates)
		}

		// Match routes (protected)
		matches := api.Group("/matches")
		matches.Use(middleware.RequireAuth(jwtService))
		{
			matches.POST("", matchHandler.CreateMatch)
			matches.GET("", matchHandler.ListMatches)
			matches.GET("/stats", matchHandler.GetStatistics)
			matches.GET("/recommendations", matchHandler.GetRecommendations)
			matches.GET("/:id", matchHandler.GetMatch)
			matches.PUT("/:id", matchHandler.UpdateMatchStatus)
		}

		// Volunteer hour routes (protected)
		hours := api.Group("/hours")
		hours.Use(middleware.RequireAuth(jwtService))
		{
			hours.POST("", hourHandler.LogHours)
			hours.GET("", hourHandler.ListHours)
			hours.PUT("/:id/verify", hourHandler.VerifyHours)
		}

		// Volunteer routes (protected)
		volunteers := api.Group("/volunteers")
		volunteers.Use(middleware.RequireAuth(jwtService))
		{
			volunteers.GET("/:id", volunteerHandler.GetProfile)
			volunteers.PUT("/:id", volunteerHandler.UpdateProfile)
			volunteers.GET("/:id/hours", volunteerHandler.GetHours)
			volunteers.GET("/:id/stats", volunteerHandler.GetStats)
		}

		// Organization routes; the directory is public
		orgs := api.Group("/organizations")
		{
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/:id", orgHandler.GetOrganization)
			orgs.PUT("/:id", middleware.RequireAuth(jwtService), orgHandler.UpdateOrganization)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(jwtService), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/logs", adminHandler.ListLogs)
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)
		}
	}

	// Start server
	logger.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
