package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// StoreDriver selects the room store: postgres or memory.
	StoreDriver string
	LogLevel    string
	LogFormat   string // json or console
	GinMode     string
	// SeedDemoRooms inserts a few rooms into an empty store on startup.
	SeedDemoRooms   bool
	CORSAllowOrigin string
}

func Load() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		DBHost:          getenv("DB_HOST", "localhost"),
		DBPort:          getenv("DB_PORT", "5432"),
		DBUser:          getenv("DB_USER", "postgres"),
		DBPassword:      getenv("DB_PASSWORD", "postgres"),
		DBName:          getenv("DB_NAME", "room_db"),
		DBSSLMode:       getenv("DB_SSLMODE", "disable"),
		StoreDriver:     strings.ToLower(getenv("STORE_DRIVER", StoreDriverPostgres)),
		LogLevel:        strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getenv("LOG_FORMAT", "json")),
		GinMode:         getenv("GIN_MODE", "release"),
		SeedDemoRooms:   getbool("SEED_DEMO_ROOMS", false),
		CORSAllowOrigin: getenv("CORS_ALLOW_ORIGIN", "*"),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getbool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
