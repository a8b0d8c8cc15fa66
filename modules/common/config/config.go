package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting, loaded once at startup.
type Config struct {
	// Gemini API
	GeminiAPIKeys    []string
	GeminiImageModel string
	GeminiTextModel  string

	// Planner sampling
	PlannerTemperature  float64
	PlannerTopP         float64
	CreativeTemperature float64
	CreativeTopP        float64

	// Redis (async job queue; worker is disabled when RedisHost is empty)
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Assets
	OutputDir string
	MasksDir  string
	BaseImage string

	// Server
	Port string

	// Editor
	EditRateLimit int // Gemini edit calls per minute
}

var globalConfig *Config

// LoadConfig reads .env (if present) and the environment into the global Config.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	useTLS := true
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	rateLimit := 30
	if rateStr := os.Getenv("EDIT_RATE_LIMIT"); rateStr != "" {
		if parsed, err := strconv.Atoi(rateStr); err == nil && parsed > 0 {
			rateLimit = parsed
		}
	}

	// Comma-separated keys allow rotation when one key hits its quota
	var apiKeys []string
	for _, key := range strings.Split(os.Getenv("GEMINI_API_KEY"), ",") {
		if key = strings.TrimSpace(key); key != "" {
			apiKeys = append(apiKeys, key)
		}
	}

	globalConfig = &Config{
		GeminiAPIKeys:    apiKeys,
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.0-flash"),

		PlannerTemperature:  getEnvFloat("PLANNER_TEMPERATURE", 1.0),
		PlannerTopP:         getEnvFloat("PLANNER_TOP_P", 0.95),
		CreativeTemperature: getEnvFloat("CREATIVE_TEMPERATURE", 1.25),
		CreativeTopP:        getEnvFloat("CREATIVE_TOP_P", 0.99),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		OutputDir: getEnv("OUTPUT_DIR", "rhythmojis"),
		MasksDir:  getEnv("MASKS_DIR", "masks"),
		BaseImage: getEnv("BASE_IMAGE", "base_pngs/base_lego_realistic.png"),

		Port: getEnv("PORT", "8080"),

		EditRateLimit: rateLimit,
	}

	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini: image=%s text=%s (%d key(s))",
		globalConfig.GeminiImageModel, globalConfig.GeminiTextModel, len(globalConfig.GeminiAPIKeys))
	log.Printf("   Output: %s (masks: %s, base: %s)",
		globalConfig.OutputDir, globalConfig.MasksDir, globalConfig.BaseImage)
	if globalConfig.RedisHost != "" {
		log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	} else {
		log.Println("   Redis: not configured, async queue disabled")
	}

	return globalConfig, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// SetConfig replaces the global config. Test helper.
func SetConfig(c *Config) {
	globalConfig = c
}

func (c *Config) validate() error {
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetRedisAddr builds the Redis connection address.
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
