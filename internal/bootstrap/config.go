package bootstrap

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string

	STTAddress string
	TTSAddress string

	OllamaHost    string
	OllamaModel   string
	OllamaHistory int

	ProfilesDir string
	VoiceSample string
	Language    string

	LogLevel string
}

func LoadConfig() *Config {
	// optional; real deployments set the environment directly
	godotenv.Load()

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		STTAddress: getEnv("STT_ADDRESS", "localhost:50052"),
		TTSAddress: getEnv("TTS_ADDRESS", "localhost:50053"),

		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "qwen2.5:7b"),
		OllamaHistory: getEnvInt("OLLAMA_HISTORY_LIMIT", 20),

		ProfilesDir: getEnv("PROFILES_DIR", "./voice_profiles"),
		VoiceSample: getEnv("VOICE_SAMPLE", "./voice_profiles/default.wav"),
		Language:    getEnv("LANGUAGE", "de"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
