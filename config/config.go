package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig is the process configuration, read from the environment.
type AppConfig struct {
	ListenAddr      string
	RedisAddr       string
	RedisDB         int
	MySQLDSN        string
	JWTSecret       string
	CardsPath       string
	SettingsPath    string
	Env             string
	RoomIdleTTL     time.Duration
	FinishedRoomTTL time.Duration
	SweepInterval   time.Duration
	TokenTTL        time.Duration
}

// FromEnv loads an optional .env file and then reads the environment. It reports
// whether a .env file was found.
func FromEnv() (AppConfig, bool) {
	loaded := godotenv.Load() == nil

	cfg := AppConfig{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8000"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		MySQLDSN:        os.Getenv("MYSQL_DSN"),
		JWTSecret:       getEnv("JWT_SECRET", "access-secret"),
		CardsPath:       getEnv("CARDS_PATH", "data/cards.yaml"),
		SettingsPath:    getEnv("SETTINGS_PATH", "data/settings.yaml"),
		Env:             getEnv("APP_ENV", "production"),
		RoomIdleTTL:     getEnvDuration("ROOM_IDLE_TTL", 2*time.Hour),
		FinishedRoomTTL: getEnvDuration("FINISHED_ROOM_TTL", 10*time.Minute),
		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", time.Minute),
		TokenTTL:        getEnvDuration("TOKEN_TTL", 24*time.Hour),
	}
	if val := getEnvInt("REDIS_DB"); val > 0 {
		cfg.RedisDB = val
	}
	return cfg, loaded
}

func (c AppConfig) Development() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns -1 when the variable is unset or not a number.
func getEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
