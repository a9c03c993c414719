package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	httpadapter "github.com/propstack/listing-service/internal/adapter/http"
	natsadapter "github.com/propstack/listing-service/internal/adapter/messaging/nats"
	"github.com/propstack/listing-service/internal/adapter/repository/cache"
	"github.com/propstack/listing-service/internal/adapter/repository/mongodb"
	"github.com/propstack/listing-service/internal/adapter/repository/postgres"
	"github.com/propstack/listing-service/internal/adapter/storage/s3"
	"github.com/propstack/listing-service/internal/config"
	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/listing/query"
	"github.com/propstack/listing-service/internal/listing/usecase"
	"github.com/propstack/listing-service/internal/mailer"
	"github.com/propstack/listing-service/internal/platform/logger"
	"github.com/propstack/listing-service/internal/platform/tracer"
)

const serviceName = "listing-service"

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		tp, err := tracer.Init(ctx, serviceName, cfg.OTLPEndpoint)
		if err != nil {
			log.Error("failed to initialize tracing", "error", err.Error())
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("tracer shutdown failed", "error", err.Error())
			}
		}()
	}

	// The backend is chosen once at startup; the rest of the service only
	// sees the gateway and repository interfaces.
	var (
		gw      query.Gateway
		repo    domain.ListingRepository
		users   domain.UserRepository
		closeDB func()
	)
	switch cfg.DatabaseType {
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Error("failed to connect to MongoDB", "error", err.Error())
			os.Exit(1)
		}
		if err := client.Ping(ctx, nil); err != nil {
			log.Error("MongoDB ping failed", "error", err.Error())
			os.Exit(1)
		}
		db := client.Database(cfg.MongoDB)
		mongoRepo := mongodb.NewListingRepository(db, log)
		gw, repo = mongoRepo, mongoRepo
		users = mongodb.NewUserRepository(db, log)
		closeDB = func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Warn("MongoDB disconnect failed", "error", err.Error())
			}
		}
		log.Info("using MongoDB backend", "database", cfg.MongoDB)

	case config.BackendPostgres:
		if err := postgres.Migrate(cfg.PostgresURI); err != nil {
			log.Error("failed to apply migrations", "error", err.Error())
			os.Exit(1)
		}
		db, err := sql.Open("pgx", cfg.PostgresURI)
		if err != nil {
			log.Error("failed to open PostgreSQL", "error", err.Error())
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("PostgreSQL ping failed", "error", err.Error())
			os.Exit(1)
		}
		pgRepo := postgres.NewListingRepository(db, log)
		gw, repo = pgRepo, pgRepo
		users = postgres.NewUserRepository(db)
		closeDB = func() {
			if err := db.Close(); err != nil {
				log.Warn("PostgreSQL close failed", "error", err.Error())
			}
		}
		log.Info("using PostgreSQL backend")

	default:
		log.Error("unsupported DATABASE_TYPE", "value", cfg.DatabaseType)
		os.Exit(1)
	}
	defer closeDB()

	var (
		engineCache query.Cache
		invalidator usecase.CacheInvalidator
	)
	if cfg.RedisAddress != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unavailable, continuing without cache", "error", err.Error())
		} else {
			listingCache := cache.NewListingCache(redisClient, log)
			engineCache = listingCache
			invalidator = listingCache
			defer redisClient.Close()
			log.Info("listing cache enabled", "address", cfg.RedisAddress)
		}
	}

	engine, err := query.NewEngine(gw, engineCache, log)
	if err != nil {
		log.Error("failed to build query engine", "error", err.Error())
		os.Exit(1)
	}

	var publisher usecase.EventPublisher
	if cfg.NATSURL != "" {
		conn, err := natsadapter.Connect(cfg.NATSURL, log)
		if err != nil {
			log.Warn("NATS unavailable, continuing without events", "error", err.Error())
		} else {
			publisher = natsadapter.NewPublisher(conn, log)
			defer conn.Close()
		}
	}

	var statusMailer usecase.StatusMailer
	if cfg.SMTPEmail != "" && cfg.SMTPPassword != "" {
		statusMailer = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	}

	listingUC := usecase.NewListingUsecase(repo, users, engine, publisher, invalidator, statusMailer, log)

	var photoUC httpadapter.PhotoService
	if cfg.MinIOEndpoint != "" {
		storage, err := s3.NewStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, log)
		if err != nil {
			log.Warn("photo storage unavailable, continuing without uploads", "error", err.Error())
		} else {
			photoUC = usecase.NewPhotoUsecase(repo, engine, storage, invalidator, log)
		}
	}

	handler := httpadapter.NewHandler(engine, listingUC, photoUC)
	server := httpadapter.NewServer(cfg.HTTPPort, handler, cfg.JWTSecret, serviceName, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("http server failed", "error", err.Error())
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err.Error())
		}
	}
}
