package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	JwtSecret        string
	PollInterval     time.Duration
	CountdownSeconds int
	SessionTTL       time.Duration
}

func MustLoadConfig() *Config {
	godotenv.Load()
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		panic("JWT_SECRET is not provided!")
	}
	pollIntervalMs := intFromEnv("POLL_INTERVAL_MS", 1000)
	countdownSeconds := intFromEnv("COUNTDOWN_SECONDS", 5)
	ttlMinutes := intFromEnv("SESSION_TTL_MINUTES", 30)
	return &Config{
		Port:             port,
		JwtSecret:        jwtSecret,
		PollInterval:     time.Duration(pollIntervalMs) * time.Millisecond,
		CountdownSeconds: countdownSeconds,
		SessionTTL:       time.Duration(ttlMinutes) * time.Minute,
	}
}

func intFromEnv(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
