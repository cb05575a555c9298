package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"assessment-system/internal/api"
	"assessment-system/internal/auth"
	"assessment-system/internal/config"
	"assessment-system/internal/content"
	"assessment-system/internal/email"
	"assessment-system/internal/models"
	"assessment-system/internal/quiz"
	"assessment-system/internal/recommend"
	"assessment-system/internal/results"
	"assessment-system/pkg/cache"
	"assessment-system/pkg/database"
	"assessment-system/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel)
	defer zlog.Sync()

	db, err := database.NewPostgresDB(&database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
	})
	if err != nil {
		zlog.Fatal("failed to connect to postgres", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.VerificationCode{},
		&models.QuizAttempt{},
	); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	mongoClient, mongoDB, err := database.NewMongoDB(cfg.Mongo.URL, cfg.Mongo.DB)
	if err != nil {
		zlog.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	redisCache := cache.NewRedisCache(cfg.RedisAddr)
	defer redisCache.Close()

	store := content.NewStore(mongoDB, redisCache, zlog)

	generator, err := recommend.NewGenerator(recommend.Config{
		APIKey:          cfg.OpenAI.APIKey,
		Model:           cfg.OpenAI.Model,
		MaxTokens:       cfg.OpenAI.MaxTokens,
		ReasoningEffort: cfg.OpenAI.ReasoningEffort,
		BaseURL:         cfg.OpenAI.BaseURL,
	})
	if err != nil {
		zlog.Fatal("failed to init recommendation generator", zap.Error(err))
	}

	recommendTimeout := time.Duration(cfg.RecommendationTimeoutSeconds) * time.Second
	tasks := results.NewTasks(store, generator, recommendTimeout, zlog)

	emailService := email.NewService(email.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		User:      cfg.SMTP.User,
		Password:  cfg.SMTP.Password,
		FromEmail: cfg.SMTP.FromEmail,
		FromName:  cfg.SMTP.FromName,
	}, zlog)

	issuer := auth.NewTokenIssuer(
		cfg.Security.SecretKey,
		cfg.Security.JWTAlgorithm,
		time.Duration(cfg.Security.AccessTokenExpireMinutes)*time.Minute,
		time.Duration(cfg.Security.RefreshTokenExpireDays)*24*time.Hour,
	)

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(
		authRepo,
		issuer,
		emailService,
		zlog,
		time.Duration(cfg.Security.VerificationCodeExpireMinutes)*time.Minute,
		cfg.Security.RequireEmailVerification,
	)
	authHandler := auth.NewHandler(authService)

	quizRepo := quiz.NewRepository(db)
	quizService := quiz.NewService(quizRepo, store, tasks, zlog)
	quizHandler := quiz.NewHandler(quizService, authService)

	resultsService := results.NewService(store, tasks, generator, cfg.EnableQuickTest, zlog)
	resultsHandler := results.NewHandler(resultsService)

	router := mux.NewRouter()
	router.Use(api.Logging(zlog))
	router.Use(api.RateLimit(cfg.RateLimitPerMinute))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	v1 := router.PathPrefix("/api/v1").Subrouter()

	// Auth routes, no bearer token required.
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/verify-email", authHandler.VerifyEmail).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/resend-verification-code", authHandler.ResendVerificationCode).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/forgot-password", authHandler.ForgotPassword).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/reset-password", authHandler.ResetPassword).Methods("POST", "OPTIONS")

	// Bearer-token routes.
	protected := v1.NewRoute().Subrouter()
	protected.Use(auth.JWTMiddleware(issuer))
	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	protected.HandleFunc("/quizzes/{quiz_id}", quizHandler.GetQuiz).Methods("GET", "OPTIONS")
	protected.HandleFunc("/quizzes/{quiz_id}/questions", quizHandler.GetQuestions).Methods("GET", "OPTIONS")
	protected.HandleFunc("/quizzes/{quiz_id}/start", quizHandler.Start).Methods("POST", "OPTIONS")
	protected.HandleFunc("/quizzes/{quiz_id}/attempts/{attempt_id}/submit", quizHandler.Submit).Methods("POST", "OPTIONS")
	protected.HandleFunc("/quizzes/{quiz_id}/attempts/{attempt_id}", quizHandler.GetAttempt).Methods("GET", "OPTIONS")

	// Service-to-service routes guarded by the shared API key.
	service := v1.NewRoute().Subrouter()
	service.Use(api.APIKey(cfg.APIKey))
	service.HandleFunc("/questions", resultsHandler.Questions).Methods("GET", "OPTIONS")
	service.HandleFunc("/results", resultsHandler.SubmitResult).Methods("POST", "OPTIONS")
	service.HandleFunc("/results/{result_id}", resultsHandler.GetResult).Methods("GET", "OPTIONS")
	service.HandleFunc("/recommendations", resultsHandler.Recommendations).Methods("POST", "OPTIONS")
	service.HandleFunc("/quick-test", resultsHandler.QuickTest).Methods("POST", "OPTIONS")
	service.HandleFunc("/quick-test/{test_id}", resultsHandler.QuickTestResult).Methods("GET", "OPTIONS")

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "X-API-Key"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      corsMiddleware.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	// Let in-flight recommendation tasks finish before the process exits.
	tasks.Wait()

	zlog.Info("server shutdown gracefully")
}
