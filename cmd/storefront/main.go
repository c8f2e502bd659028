package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sweethut/storefront/internal/api"
	"github.com/sweethut/storefront/internal/auth"
	"github.com/sweethut/storefront/internal/cart"
	"github.com/sweethut/storefront/internal/catalog"
	"github.com/sweethut/storefront/internal/db"
	"github.com/sweethut/storefront/internal/events"
)

type Config struct {
	HTTPPort             string
	DBPath               string
	SQLiteMigrationsPath string
	RedisAddr            string
	RedisPassword        string
	KafkaBrokers         string
	IdentityURL          string
	IdentityAPIKey       string
	PGHost               string
	PGPort               int
	PGUser               string
	PGPassword           string
	PGDBName             string
	PGMigrationsPath     string
	RequestTimeout       time.Duration
	ShutdownTimeout      time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DBPath:               getEnv("DB_PATH", "storefront.db"),
		SQLiteMigrationsPath: getEnv("SQLITE_MIGRATIONS_PATH", "migrations/sqlite"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:         getEnv("KAFKA_BROKERS", ""),
		IdentityURL:          getEnv("IDENTITY_URL", "http://localhost:9999"),
		IdentityAPIKey:       getEnv("IDENTITY_API_KEY", ""),
		PGHost:               getEnv("PG_HOST", "localhost"),
		PGPort:               getEnvInt("PG_PORT", 5432),
		PGUser:               getEnv("PG_USER", "postgres"),
		PGPassword:           getEnv("PG_PASSWORD", "postgres"),
		PGDBName:             getEnv("PG_DB_NAME", "storefront"),
		PGMigrationsPath:     getEnv("PG_MIGRATIONS_PATH", "migrations/postgres"),
		RequestTimeout:       30 * time.Second,
		ShutdownTimeout:      10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Local SQLite database: catalog plus cart snapshots.
	sqliteDB, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqliteDB.Close()

	if err := db.RunMigrations(sqliteDB, cfg.SQLiteMigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("SQLite database ready at %s", cfg.DBPath)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	catalogService := catalog.NewService(
		catalog.NewRepository(sqliteDB),
		catalog.NewRedisCache(redisClient),
	)

	carts := cart.NewManager(cart.NewSQLiteStorage(sqliteDB))

	pgCred := &auth.Credentials{
		Host:              cfg.PGHost,
		Port:              cfg.PGPort,
		User:              cfg.PGUser,
		Password:          cfg.PGPassword,
		DBName:            cfg.PGDBName,
		MigrationsDirPath: cfg.PGMigrationsPath,
	}
	profiles, err := auth.NewPostgresProfiles(pgCred)
	if err != nil {
		log.Fatalf("Failed to connect to profiles database: %v", err)
	}
	defer profiles.Close()

	if err := profiles.RunMigrations(pgCred); err != nil {
		log.Fatalf("Failed to run profile migrations: %v", err)
	}
	log.Printf("Connected to profiles database at %s:%d", cfg.PGHost, cfg.PGPort)

	provider := auth.NewHTTPProvider(cfg.IdentityURL, cfg.IdentityAPIKey, nil)
	authStore := auth.NewStore(provider, profiles)
	if err := authStore.Initialize(ctx); err != nil {
		log.Printf("session restore failed, starting signed out: %v", err)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing orders to kafka at %s", cfg.KafkaBrokers)
	}

	r := api.NewRouter(catalogService, carts, authStore, publisher, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
