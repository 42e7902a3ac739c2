package main

import (
	"context"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/lectura-ai/lectura/config"
	"github.com/lectura-ai/lectura/internal/api/middleware"
	"github.com/lectura-ai/lectura/internal/api/routes"
	"github.com/lectura-ai/lectura/internal/cache"
	"github.com/lectura-ai/lectura/internal/logger"
	"github.com/lectura-ai/lectura/internal/media"
	"github.com/lectura-ai/lectura/internal/providers/llm"
	"github.com/lectura-ai/lectura/internal/providers/stt"
	"github.com/lectura-ai/lectura/internal/queue"
	mongorepo "github.com/lectura-ai/lectura/internal/repositories/mongo"
	pgrepo "github.com/lectura-ai/lectura/internal/repositories/postgres"
	"github.com/lectura-ai/lectura/internal/services"
	"github.com/lectura-ai/lectura/internal/storage"
	"github.com/lectura-ai/lectura/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("failed to init postgres")
	}
	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("failed to init mongo")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("failed to ensure mongo indexes")
	}
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("failed to init redis")
	}

	store := buildMediaStore(ctx, log)
	provider := buildLLMProvider(ctx, log)

	// A speech engine that fails to init leaves the transcriber unavailable;
	// uploads still land and runs fail cleanly until credentials are fixed.
	var engine stt.Engine
	gs, err := stt.NewGoogleSpeech(ctx, os.Getenv("STT_LANGUAGE"), os.Getenv("STT_MODEL"), os.Getenv("STT_BUCKET"))
	if err != nil {
		log.WithError(err).Error("speech client init failed, transcription is unavailable")
	} else {
		engine = gs
	}
	transcriber := stt.NewTranscriber(engine)

	sessionRepo := pgrepo.NewSessionRepo(config.PostgresDB)
	analysisRepo := pgrepo.NewAnalysisRepo(config.PostgresDB)
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	qaRepo := mongorepo.NewQARepo(config.MongoDatabase())

	resultCache := cache.NewRedisCache(config.RedisClient)
	q := queue.NewRedisQueue(config.RedisClient, queue.DefaultStream)

	pool := &workers.SessionWorkerPool{
		Redis:       config.RedisClient,
		Sessions:    sessionRepo,
		Results:     analysisRepo,
		Store:       store,
		Media:       media.FFmpeg{},
		Transcriber: transcriber,
		LLM:         provider,
		Cache:       resultCache,
		Logger:      log,
		NumWorkers:  envInt("WORKER_COUNT", 2),
		ScratchDir:  os.Getenv("SCRATCH_DIR"),
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("failed to start worker pool")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = 32 << 20

	routes.RegisterRoutes(r, routes.Deps{
		Users:    services.NewUserService(userRepo, os.Getenv("JWT_SECRET")),
		Sessions: services.NewSessionService(sessionRepo, store, q),
		Analysis: services.NewAnalysisService(analysisRepo, qaRepo, provider, resultCache),
		Redis:    config.RedisClient,
		Logger:   log,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("starting server")
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func buildMediaStore(ctx context.Context, log *logrus.Logger) storage.MediaStore {
	switch os.Getenv("MEDIA_BACKEND") {
	case "gcs":
		store, err := storage.NewGCSStore(ctx, os.Getenv("GCS_BUCKET"), os.Getenv("SCRATCH_DIR"))
		if err != nil {
			log.Fatal("failed to init gcs store: ", err)
		}
		return store
	default:
		store, err := storage.NewLocalStore(os.Getenv("MEDIA_ROOT"))
		if err != nil {
			log.Fatal("failed to init local media store: ", err)
		}
		return store
	}
}

func buildLLMProvider(ctx context.Context, log *logrus.Logger) llm.Provider {
	switch os.Getenv("LLM_PROVIDER") {
	case "vertex":
		p, err := llm.NewVertexGemini(ctx,
			os.Getenv("VERTEX_PROJECT"),
			os.Getenv("VERTEX_LOCATION"),
			os.Getenv("VERTEX_MODEL"))
		if err != nil {
			log.Fatal("failed to init vertex provider: ", err)
		}
		return p
	default:
		return llm.NewOllama(os.Getenv("OLLAMA_URL"), os.Getenv("OLLAMA_MODEL"))
	}
}

func envInt(key string, def int) int {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return def
}
