package main

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/bucketly/backend/internal/models"
	"github.com/bucketly/backend/internal/router"
	"github.com/bucketly/backend/internal/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title			Bucketly API
// @description	The backend for Bucketly, a proportional budget allocation tool.
func main() {
	// Load .env file for local development, in production the
	// environment is set directly
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		apiURL = "http://localhost:8080"
	}

	baseURL, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Msg("API_URL must be a valid URL")
	}

	// Create data directory
	dataDir := filepath.Join(".", "data")
	err = os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	dsn, ok := os.LookupEnv("DB_DSN")
	if !ok {
		dsn = filepath.Join(dataDir, "gorm.db")
	}

	err = models.Connect(dsn)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, err := router.Config(baseURL)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	router.AttachRoutes(r.Group("/"))

	// The scheduler takes care of the monthly rollover. It can be
	// turned off when an external system calls POST /v1/rollovers
	// instead.
	scheduleRollover, ok := os.LookupEnv("SCHEDULE_ROLLOVER")
	if !ok || scheduleRollover == "true" {
		s := scheduler.New(models.DB)
		s.Start(context.Background())
		defer s.Stop()
	}

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
