package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/musicquiz-api/internal/config"
	"github.com/yourusername/musicquiz-api/internal/handler"
	"github.com/yourusername/musicquiz-api/internal/middleware"
	pgRepo "github.com/yourusername/musicquiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/musicquiz-api/internal/repository/redis"
	"github.com/yourusername/musicquiz-api/internal/service"
	"github.com/yourusername/musicquiz-api/pkg/auth"
	"github.com/yourusername/musicquiz-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	tenantRepo := pgRepo.NewTenantRepo(db)
	adminRepo := pgRepo.NewAdminRepo(db)
	sessionRepo := pgRepo.NewSessionRepo(db)
	roundRepo := pgRepo.NewRoundRepo(db)
	participantRepo := pgRepo.NewParticipantRepo(db)
	participationRepo := pgRepo.NewParticipationRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Настройки игровой логики
	quizConfig := &service.Config{
		RoundPointValue:    cfg.Quiz.RoundPointValue,
		ScoreboardCacheTTL: time.Duration(cfg.Quiz.ScoreboardCacheTTLMs) * time.Millisecond,
	}

	// Инициализируем сервисы
	scoreService := service.NewScoreService(sessionRepo, participantRepo, participationRepo, answerRepo, cacheRepo, quizConfig)
	sessionService := service.NewSessionService(sessionRepo, roundRepo, scoreService)
	answerService := service.NewAnswerService(sessionRepo, roundRepo, participationRepo, answerRepo)
	participantService := service.NewParticipantService(tenantRepo, sessionRepo, participantRepo, participationRepo, scoreService, jwtService)
	authService := service.NewAuthService(tenantRepo, adminRepo, jwtService)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	tenantHandler := handler.NewTenantHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	participantHandler := handler.NewParticipantHandler(participantService, answerService)
	scoreboardHandler := handler.NewScoreboardHandler(scoreService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Принципал разрешается один раз на запрос; недействительный токен
	// дает анонимного принципала, отказ происходит на защищенных маршрутах
	router.Use(authMiddleware.Resolve())

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация администраторов
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}

		// Тенанты и администраторы (провиженинг)
		tenants := api.Group("/tenants")
		tenants.Use(authMiddleware.RequireAdmin())
		{
			tenants.POST("", tenantHandler.CreateTenant)
			tenants.GET("", tenantHandler.ListTenants)
			tenants.GET("/:tenantId", tenantHandler.GetTenant)
			tenants.PUT("/:tenantId", tenantHandler.UpdateTenant)
			tenants.DELETE("/:tenantId", tenantHandler.DeleteTenant)

			tenants.POST("/:tenantId/admins", tenantHandler.CreateAdmin)
			tenants.GET("/:tenantId/admins", tenantHandler.ListAdmins)
		}

		admins := api.Group("/admins")
		admins.Use(authMiddleware.RequireAdmin())
		{
			admins.PUT("/:adminId", tenantHandler.UpdateAdmin)
			admins.DELETE("/:adminId", tenantHandler.DeleteAdmin)
		}

		// Участники
		participants := api.Group("/participants")
		{
			participants.POST("/register", participantHandler.Register)

			authedParticipants := participants.Group("")
			authedParticipants.Use(authMiddleware.RequireParticipant())
			{
				authedParticipants.GET("/me", participantHandler.GetProfile)
				authedParticipants.PUT("/me", participantHandler.UpdateProfile)
			}

			// Админское управление участниками тенанта
			adminParticipants := participants.Group("")
			adminParticipants.Use(authMiddleware.RequireAdmin())
			{
				adminParticipants.GET("", participantHandler.ListParticipants)
				adminParticipants.PUT("/:participantId", participantHandler.UpdateParticipant)
				adminParticipants.DELETE("/:participantId", participantHandler.DeleteParticipant)
				adminParticipants.DELETE("", participantHandler.ClearParticipants)
			}
		}

		// Сессии викторин
		sessions := api.Group("/sessions")
		{
			// Маршруты администраторов
			adminSessions := sessions.Group("")
			adminSessions.Use(authMiddleware.RequireAdmin())
			{
				adminSessions.POST("", sessionHandler.CreateSession)
				adminSessions.GET("", sessionHandler.ListSessions)
				adminSessions.PUT("/:sessionId", sessionHandler.UpdateSession)
				adminSessions.DELETE("/:sessionId", sessionHandler.DeleteSession)

				adminSessions.POST("/:sessionId/rounds", sessionHandler.AddRound)
				adminSessions.DELETE("/:sessionId/rounds/:roundNumber", sessionHandler.DeleteRound)
				adminSessions.POST("/:sessionId/rounds/:roundNumber/start", sessionHandler.StartRound)
				adminSessions.POST("/:sessionId/rounds/:roundNumber/reveal", sessionHandler.RevealRound)
				adminSessions.POST("/:sessionId/complete", sessionHandler.CompleteSession)

				adminSessions.POST("/:sessionId/scoreboard/reset", scoreboardHandler.ResetPoints)
				adminSessions.GET("/:sessionId/scoreboard/export", scoreboardHandler.ExportScoreboard)
			}

			// Чтение сессии доступно и админу, и участнику; ответ
			// редактируется по виду принципала (correct_option скрывается)
			authedSessions := sessions.Group("")
			authedSessions.Use(authMiddleware.RequireAuth())
			{
				authedSessions.GET("/:sessionId", sessionHandler.GetSession)
				authedSessions.GET("/:sessionId/scoreboard", scoreboardHandler.GetScoreboard)
			}

			// Маршруты участников
			participantSessions := sessions.Group("")
			participantSessions.Use(authMiddleware.RequireParticipant())
			{
				participantSessions.POST("/:sessionId/join", participantHandler.JoinSession)
				participantSessions.POST("/:sessionId/answers", participantHandler.SubmitAnswer)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	if sqlDB, err := database.GetSQLDB(db); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}

	log.Println("Server exited")
}
