package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/database"
	"github.com/automeet/automeet/backend/internal/logger"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/server"
	"github.com/automeet/automeet/backend/internal/version"
)

func main() {
	// Setup logging with rotation
	logDir := filepath.Join("data", "logs")
	_ = os.MkdirAll(logDir, 0755)

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "automeet.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Log to both stdout and file
	mw := io.MultiWriter(os.Stdout, rotator)
	logger.Init(cfg.Environment == "development", mw)

	if cfg.MeiliEnabled() {
		hook, err := logger.NewMeiliHook(cfg.MeiliURL, cfg.MeiliAPIKey, cfg.MeiliIndex, version.Name, cfg.Environment)
		if err != nil {
			logger.Log().WithError(err).Warn("Search-index log mirror disabled")
		} else {
			logger.AddHook(hook)
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	// Handle CLI commands
	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		if len(os.Args) != 4 {
			log.Fatalf("Usage: %s reset-password <email> <new-password>", os.Args[0])
		}
		email := os.Args[2]
		newPassword := os.Args[3]

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			log.Fatalf("user not found: %v", err)
		}
		if err := user.SetPassword(newPassword); err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		if err := db.Model(&user).Update("password", user.PasswordHash).Error; err != nil {
			log.Fatalf("failed to save user: %v", err)
		}

		log.Printf("Password updated successfully for user %s", email)
		return
	}

	logger.Log().Infof("starting %s backend version %s", version.Name, version.Full())

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
