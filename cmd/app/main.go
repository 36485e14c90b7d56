package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"redbutton/cmd/fx/ai_fx"
	"redbutton/cmd/fx/auth_fx"
	"redbutton/cmd/fx/config_fx"
	"redbutton/cmd/fx/controllers_fx"
	"redbutton/cmd/fx/db_fx"
	"redbutton/cmd/fx/mail_fx"
	"redbutton/cmd/fx/memcache_fx"
	"redbutton/cmd/fx/subscription_fx"
	"redbutton/cmd/fx/userdata_fx"
	"redbutton/internal/api/controllers"
	"redbutton/internal/repositories"
	"redbutton/pkg/config"
	"redbutton/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		mail_fx.Module,
		memcache_fx.Module,
		userdata_fx.Module,
		auth_fx.Module,
		ai_fx.Module,
		subscription_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server on port %s (%s)", cfg.Port, cfg.Env)
				if err := engine.Run(":" + cfg.Port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	userDataRepo repositories.UserDataRepository,
	authController *controllers.AuthController,
	userDataController *controllers.UserDataController,
	aiController *controllers.AIController,
	subscriptionController *controllers.SubscriptionController,
	systemController *controllers.SystemController,
) *gin.Engine {

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceID())
	r.Use(middleware.RateLimit(cfg))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterRoutes(r, cfg, userRepo, userDataRepo,
		authController, userDataController, aiController, subscriptionController, systemController)

	return r
}

func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	userRepo repositories.UserRepository,
	userDataRepo repositories.UserDataRepository,
	authController *controllers.AuthController,
	userDataController *controllers.UserDataController,
	aiController *controllers.AIController,
	subscriptionController *controllers.SubscriptionController,
	systemController *controllers.SystemController,
) {

	auth := middleware.JWTAuth(cfg, userRepo)

	r.GET("/health", systemController.Health)
	r.GET("/download", systemController.Download)

	authGroup := r.Group("/api/auth")
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/verify-invite", authController.VerifyInvite)
	authGroup.GET("/me", auth, authController.Me)
	authGroup.POST("/invite", auth, middleware.RequireAdmin(), authController.Invite)
	authGroup.POST("/admin/generate-invite", authController.GenerateInvite)
	authGroup.GET("/google", authController.GoogleStart)
	authGroup.GET("/google/callback", authController.GoogleCallback)
	authGroup.POST("/oauth", authController.OAuthLogin)
	authGroup.PUT("/api-key", auth, authController.UpdateAPIKey)

	userDataGroup := r.Group("/api/userdata", auth)
	userDataGroup.GET("", userDataController.GetUserData)
	userDataGroup.PATCH("/settings", userDataController.UpdateSettings)
	userDataGroup.POST("/emotions", userDataController.AddEmotion)
	userDataGroup.DELETE("/emotions/:emotionId", userDataController.RemoveEmotion)
	userDataGroup.POST("/journal", userDataController.SaveJournalEntry)
	userDataGroup.POST("/goals", userDataController.AddGoal)
	userDataGroup.POST("/initiatives", userDataController.AddInitiative)
	userDataGroup.POST("/checkins", userDataController.AddCheckIn)

	aiGroup := r.Group("/api/ai", auth)
	aiGroup.POST("/suggestions",
		middleware.RequireSubscription(cfg, userDataRepo, middleware.GateSuggestions), aiController.Suggestions)
	aiGroup.POST("/journal-template",
		middleware.RequireSubscription(cfg, userDataRepo, middleware.GateJournal), aiController.JournalTemplate)
	aiGroup.POST("/polish-entry",
		middleware.RequireSubscription(cfg, userDataRepo, middleware.GatePolish), aiController.PolishEntry)
	aiGroup.POST("/initiative-chat",
		middleware.RequireSubscription(cfg, userDataRepo, middleware.GateChat), aiController.InitiativeChat)
	aiGroup.POST("/upload-file", aiController.UploadFile)
	// Onboarding runs before any subscription exists, so it is never gated.
	aiGroup.POST("/onboarding-chat", aiController.OnboardingChat)

	subscriptionGroup := r.Group("/api/subscription")
	subscriptionGroup.GET("/products", auth, subscriptionController.Products)
	subscriptionGroup.POST("/create-session", auth, subscriptionController.CreateSession)
	subscriptionGroup.GET("/status", auth, subscriptionController.Status)
	subscriptionGroup.POST("/restore", auth, subscriptionController.Restore)
	// Signed by the provider, not by a user token.
	subscriptionGroup.POST("/webhook", subscriptionController.Webhook)
}
