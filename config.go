package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort   string
	LogLevel     string
	LogJSON      bool
	CoursesPath  string
	GraphExport  string
	RunsDBPath   string
	EvalProfiles string
	ReportsDir   string

	Graph GraphConfig
	LLM   LLMConfig
}

// GraphConfig holds the tunable weights for similarity graph construction.
// The core does not validate these; unusual values just produce a sparser
// or denser graph.
type GraphConfig struct {
	WGroup           float64
	WSSD             float64
	WText            float64
	TextSimThreshold float64
	MinEdgeWeight    float64
}

// LLMConfig holds settings for the chat-completions API used to talk to
// the student and extract profiles.
type LLMConfig struct {
	BaseURL            string
	APIKey             string
	ReplyModel         string
	ProfileModel       string
	ReplyTemperature   float64
	ProfileTemperature float64
	TimeoutSeconds     int
}

// DefaultGraphConfig returns the weights used in production.
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		WGroup:           0.6,
		WSSD:             0.9,
		WText:            1.0,
		TextSimThreshold: 0.18,
		MinEdgeWeight:    0.2,
	}
}

// LoadConfig loads configuration from a .env file (if present) and
// environment variables.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogJSON:      getEnvBool("LOG_JSON", false),
		CoursesPath:  getEnv("COURSES_PATH", "data/courses.json"),
		GraphExport:  getEnv("GRAPH_EXPORT_PATH", ""),
		RunsDBPath:   getEnv("RUNS_DB_PATH", "data/runs.db"),
		EvalProfiles: getEnv("EVAL_PROFILES_PATH", "data/eval_profiles.json"),
		ReportsDir:   getEnv("REPORTS_DIR", "reports"),
		Graph: GraphConfig{
			WGroup:           getEnvFloat("GRAPH_W_GROUP", 0.6),
			WSSD:             getEnvFloat("GRAPH_W_SSD", 0.9),
			WText:            getEnvFloat("GRAPH_W_TEXT", 1.0),
			TextSimThreshold: getEnvFloat("GRAPH_TEXT_SIM_THRESHOLD", 0.18),
			MinEdgeWeight:    getEnvFloat("GRAPH_MIN_EDGE_WEIGHT", 0.2),
		},
		LLM: LLMConfig{
			BaseURL:            strings.TrimRight(getEnv("LLM_BASE_URL", "https://api.openai.com/v1"), "/"),
			APIKey:             getEnv("LLM_API_KEY", ""),
			ReplyModel:         getEnv("LLM_REPLY_MODEL", "gpt-4o-mini"),
			ProfileModel:       getEnv("LLM_PROFILE_MODEL", "gpt-4o-mini"),
			ReplyTemperature:   getEnvFloat("LLM_REPLY_TEMPERATURE", 0.7),
			ProfileTemperature: getEnvFloat("LLM_PROFILE_TEMPERATURE", 0.0),
			TimeoutSeconds:     getEnvInt("LLM_TIMEOUT_SECONDS", 30),
		},
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value == "true" {
		return true
	}
	return defaultValue
}
