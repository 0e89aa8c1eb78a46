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

	// Provider credentials. None are required at startup: each endpoint
	// reports a missing key on its own terms when called.
	OpenAIAPIKey     string
	XAIAPIKey        string
	ElevenLabsAPIKey string
	GeminiAPIKey     string

	// Frontend
	FrontendURL string

	// Rate limiting on the paid-API routes
	AIRequestsPerMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Env:              getEnvOrDefault("ENV", "development"),
		OpenAIAPIKey:     getEnvOrDefault("OPENAI_API_KEY", ""),
		XAIAPIKey:        getEnvOrDefault("XAI_API_KEY", ""),
		ElevenLabsAPIKey: getEnvOrDefault("ELEVENLABS_API_KEY", ""),
		GeminiAPIKey:     getEnvOrDefault("GEMINI_API_KEY", ""),
		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		AIRequestsPerMin: getEnvAsIntOrDefault("AI_REQUESTS_PER_MINUTE", 30),
	}

	return cfg
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
