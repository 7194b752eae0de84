package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/naseer2426/skybot/internal/api"
	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/db"
	"github.com/naseer2426/skybot/internal/line"
	"github.com/naseer2426/skybot/internal/skybot"
)

func main() {
	err := initEnv()
	if err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := initLogger(cfg.LogLevel)

	if err := os.MkdirAll(filepath.Join(cfg.StaticDir, "tmp"), 0o755); err != nil {
		logger.Error("create static dir failed", "dir", cfg.StaticDir, "error", err)
		os.Exit(1)
	}

	l, err := initLineWebhook(cfg, logger)
	if err != nil {
		logger.Error("init webhook failed", "error", err)
		os.Exit(1)
	}

	router := initRouter()
	router.GET("/", api.HealthCheck)
	router.POST("/callback", l.LineWebhook)
	router.GET("/aqi", l.PushAQI)
	router.Static("/static", cfg.StaticDir)

	logger.Info("starting server", "port", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func initEnv() error {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		// Only fail if the file exists but cannot be read; envs may come from the environment
		if !os.IsNotExist(err) {
			slog.Warn("could not load .env", "error", err)
			return err
		}
	}
	return nil
}

func initLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func initRouter() *gin.Engine {
	router := gin.Default()

	router.Use(requestid.New(requestid.WithGenerator(uuid.NewString)))
	// Allow CORS for all origins
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Line-Signature"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
	}))

	return router
}

func initLineWebhook(cfg config.Config, logger *slog.Logger) (*api.LineWebhook, error) {
	bot, err := skybot.NewBot(cfg, logger)
	if err != nil {
		return nil, err
	}
	journal, err := initJournal(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &api.LineWebhook{
		SkyBot:        bot,
		LineAPI:       line.NewLineAPI(cfg.LINE),
		Journal:       journal,
		ChannelSecret: cfg.LINE.ChannelSecret,
		Logger:        logger,
	}, nil
}

// initJournal returns a nil journal when no database is configured.
func initJournal(cfg config.Config, logger *slog.Logger) (*db.Journal, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, delivery journal disabled")
		return nil, nil
	}
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		// run migrations
		if err := db.AutoMigrate(database); err != nil {
			return nil, err
		}
	}
	return db.NewJournal(database), nil
}
