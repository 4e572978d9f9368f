package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	DatabasePath       string
	LogLevel           string
	MaxUploadSizeBytes int64

	// ImportFeeRate is the flat proportional deduction applied to the gross
	// amount to approximate the net settlement value. Real fee-plan pricing is
	// out of scope for the import pipeline.
	ImportFeeRate float64

	// PendingRunTTL is how long a processed-but-uncommitted import run is kept
	// around waiting for operator approval.
	PendingRunTTL time.Duration

	// StorageTimeout bounds every registry query/create and the bulk insert;
	// exceeding it is fatal for the run, never silently retried.
	StorageTimeout time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	feeRateStr := getEnv("IMPORT_FEE_RATE", "0.025")
	feeRate, err := strconv.ParseFloat(feeRateStr, 64)
	if err != nil || feeRate < 0 || feeRate >= 1 {
		log.Printf("WARNING: Invalid IMPORT_FEE_RATE '%s'. Using default 0.025. Error (if any): %v", feeRateStr, err)
		feeRate = 0.025
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "./paydash.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,
		ImportFeeRate:      feeRate,
		PendingRunTTL:      getEnvAsDuration("PENDING_RUN_TTL", 30*time.Minute),
		StorageTimeout:     getEnvAsDuration("STORAGE_TIMEOUT", 30*time.Second),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, FeeRate=%.4f",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.ImportFeeRate)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
