package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const envFile = ".env"

type Config struct {
	Port      int
	AppEnv    string
	DBDriver  string
	DBDSN     string
	JWTSecret string
	LogDir    string
	Debug     bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KVPrefix      string

	RateLimitPerMinute int
	RateLimitBurst     int
}

func Load() (*Config, error) {
	// Try loading .env file, but don't fail if it doesn't exist
	_ = godotenv.Load(envFile)

	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		fmt.Println("JWT_SECRET not found or too short. Generating a new secret...")
		newSecret, err := generateRandomKey(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate secret: %w", err)
		}

		if err := saveToEnv(envFile, "JWT_SECRET", newSecret); err != nil {
			fmt.Printf("Warning: Failed to save generated secret to %s: %v\n", envFile, err)
		} else {
			fmt.Printf("New JWT_SECRET saved to %s file.\n", envFile)
		}
		secret = newSecret
	}

	appEnv := getEnv("APP_ENV", "test")
	if appEnv != "test" && appEnv != "live" {
		return nil, fmt.Errorf("APP_ENV must be test or live, got %q", appEnv)
	}

	return &Config{
		Port:      getEnvInt("PORT", 8080),
		AppEnv:    appEnv,
		DBDriver:  getEnv("DB_DRIVER", "sqlite"),
		DBDSN:     getEnv("DB_DSN", "restinvoice.db"),
		JWTSecret: secret,
		LogDir:    getEnv("LOG_DIR", "logs"),
		Debug:     getEnvBool("DEBUG", false),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		KVPrefix:      getEnv("KV_PREFIX", "restinvoice:apikey:"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func generateRandomKey(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	// Return base64 encoded string to ensure it's printable and handles bytes correctly
	return base64.StdEncoding.EncodeToString(b), nil
}

// saveToEnv sets key in filename, keeping every other entry.
func saveToEnv(filename, key, value string) error {
	env, err := godotenv.Read(filename)
	if errors.Is(err, fs.ErrNotExist) {
		env = map[string]string{}
	} else if err != nil {
		return err
	}
	env[key] = value
	return godotenv.Write(env, filename)
}
