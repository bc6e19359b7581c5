package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "3000"
	defaultMaxRooms        = 1000
	defaultShutdownTimeout = time.Second * 10
)

type Config struct {
	Port            string
	MaxRooms        int
	TokenSecret     string
	AllowedOrigins  []string
	LogLevel        string
	ShutdownTimeout time.Duration
}

func MustLoadConfig() *Config {
	godotenv.Load()
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	maxRooms := defaultMaxRooms
	if raw := os.Getenv("MAX_ROOMS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			panic("MAX_ROOMS must be a positive integer!")
		}
		maxRooms = parsed
	}
	tokenSecret := os.Getenv("TOKEN_SECRET")
	if tokenSecret == "" {
		panic("TOKEN_SECRET is not provided!")
	}
	allowedOrigins := []string{"*"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		allowedOrigins = strings.Split(raw, ",")
	}
	shutdownTimeout := defaultShutdownTimeout
	if raw := os.Getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			panic("SHUTDOWN_TIMEOUT is not a duration!")
		}
		shutdownTimeout = parsed
	}
	return &Config{
		Port:            port,
		MaxRooms:        maxRooms,
		TokenSecret:     tokenSecret,
		AllowedOrigins:  allowedOrigins,
		LogLevel:        os.Getenv("LOG_LEVEL"),
		ShutdownTimeout: shutdownTimeout,
	}
}
