package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/ai"
	"campustrace-backend-go/internal/api"
	"campustrace-backend-go/internal/config"
	"campustrace-backend-go/internal/core"
	"campustrace-backend-go/internal/db"
	"campustrace-backend-go/internal/firebase"
	"campustrace-backend-go/internal/logger"
	"campustrace-backend-go/internal/middleware"
	"campustrace-backend-go/pkg/cache"
	"campustrace-backend-go/pkg/messagequeue"
)

func main() {
	// --- 1. Configuration and logger ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}
	zapLogger, err := logger.New(appConfig.LogLevel, appConfig.IsRelease())
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 2. Firebase Admin SDK (Firestore, Auth) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := firebase.Init(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()

	// --- 3. Optional infrastructure ---
	photoCache := newCache(initCtx, appConfig, zapLogger)
	queue := newMessageQueue(appConfig, zapLogger)
	defer queue.Close()

	// --- 4. Repositories ---
	itemRepo := db.NewFirestoreItemRepository(clients.Firestore, zapLogger)
	savedRepo := db.NewFirestoreSavedItemRepository(clients.Firestore)
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)

	// --- 5. Generative AI ---
	var matcher core.Matcher
	var images core.ImageSynthesizer
	if appConfig.AIEnabled() {
		gen, err := ai.NewGenerator(initCtx, appConfig.GeminiAPIKey)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize GenAI client", zap.Error(err))
		}
		matcher = ai.NewMatcher(gen, appConfig.GeminiTextModel, zapLogger)
		var refURLs map[string]string
		if appConfig.ReferencePhotosFile != "" {
			if refURLs, err = config.LoadReferencePhotos(appConfig.ReferencePhotosFile); err != nil {
				zapLogger.Fatal("CRITICAL_ERROR: Failed to load reference photos", zap.Error(err))
			}
		}
		refs := ai.NewReferencePhotos(refURLs, photoCache, zapLogger)
		images = ai.NewImageSynthesizer(gen, appConfig.GeminiImageModel, refs, zapLogger)
		zapLogger.Info("Generative AI enabled",
			zap.String("textModel", appConfig.GeminiTextModel),
			zap.String("imageModel", appConfig.GeminiImageModel))
	} else {
		zapLogger.Warn("GEMINI_API_KEY not set: match suggestions and image synthesis are disabled")
	}

	// --- 6. Services ---
	sessions := core.NewSessionBroker(zapLogger)
	events := core.NewEventPublisher(queue, appConfig.ItemEventsQueue, zapLogger)
	services := api.Services{
		Items:    core.NewItemService(itemRepo, matcher, images, events, zapLogger),
		Saved:    core.NewSavedService(savedRepo, itemRepo, zapLogger),
		Users:    core.NewUserService(userRepo, firebase.NewAuthAdmin(clients.Auth), sessions, zapLogger),
		Sessions: sessions,
	}

	// A nil *auth.Client must reach the middleware as a nil interface.
	var verifier middleware.TokenVerifier
	if clients.Auth != nil {
		verifier = clients.Auth
	}
	authMW := middleware.NewAuthMiddleware(verifier, zapLogger)

	// --- 7. Gin engine and middleware ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
	zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))

	api.SetupRoutes(router, authMW, services, zapLogger)

	// --- 8. HTTP server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 9. Graceful shutdown ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}

// newCache connects to Redis when REDIS_ADDR is set and falls back to an
// in-process cache otherwise.
func newCache(ctx context.Context, cfg *config.Config, log *zap.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-memory cache")
		return cache.NewMemoryCache()
	}
	rc, err := cache.NewRedisCache(ctx, cache.NewRedisCacheConfig{
		Address:  cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, log)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		return cache.NewMemoryCache()
	}
	return rc
}

// newMessageQueue connects to RabbitMQ when RABBITMQ_URL is set.
func newMessageQueue(cfg *config.Config, log *zap.Logger) messagequeue.MessageQueue {
	if cfg.RabbitMQURL == "" {
		log.Info("RABBITMQ_URL not set, item events are logged only")
		return messagequeue.NewLogQueue(log)
	}
	mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: cfg.RabbitMQURL}, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, item events are logged only", zap.Error(err))
		return messagequeue.NewLogQueue(log)
	}
	return mq
}
