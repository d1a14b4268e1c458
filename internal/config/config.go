package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey       string
	GeminiModel        string
	GeminiTemperature  float64
	GeminiSystemPrompt string

	// Chat
	ChatMaxTurns int

	// Logging
	LogLevel string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		GeminiTemperature:  getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", 0.7),
		GeminiSystemPrompt: getEnvOrDefault("GEMINI_SYSTEM_PROMPT", ""),
		ChatMaxTurns:       getEnvAsIntOrDefault("CHAT_MAX_TURNS", 0),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg
}

// MissingKeys lists required variables that are unset. The server still
// starts without them; requests that need them fail instead.
func (c *Config) MissingKeys() []string {
	var missing []string
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	return missing
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}
