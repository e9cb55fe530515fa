package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	AI         AIConfig         `mapstructure:"ai"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Engagement EngagementConfig `mapstructure:"engagement"`
	Interview  InterviewConfig  `mapstructure:"interview"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AdminToken     string   `mapstructure:"admin_token"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// RedisConfig holds settings for the optional redis live-state driver.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AIConfig selects and configures the language-model collaborators.
type AIConfig struct {
	Provider       string `mapstructure:"provider"` // "gemini" or "openai"
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
	GeminiModel    string `mapstructure:"gemini_model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	OpenAIModel    string `mapstructure:"openai_model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// RetrievalConfig holds settings for the resume vector store.
type RetrievalConfig struct {
	QdrantURL    string `mapstructure:"qdrant_url"`
	QdrantAPIKey string `mapstructure:"qdrant_api_key"`
	Collection   string `mapstructure:"collection"`
	TopK         int    `mapstructure:"top_k"`
}

// ScoringConfig holds the rubric weights and scorer strategy selection.
type ScoringConfig struct {
	Strategy     string  `mapstructure:"strategy"` // "heuristic" or "model"
	Relevance    float64 `mapstructure:"relevance_weight"`
	Accuracy     float64 `mapstructure:"accuracy_weight"`
	Completeness float64 `mapstructure:"completeness_weight"`
	Clarity      float64 `mapstructure:"clarity_weight"`
}

// EngagementConfig holds the tunable label sets for engagement scoring.
type EngagementConfig struct {
	NegativeEmotions []string `mapstructure:"negative_emotions"`
	DistractedGazes  []string `mapstructure:"distracted_gazes"`
	ToneWindow       int      `mapstructure:"tone_window"`
	ToneStrategy     string   `mapstructure:"tone_strategy"` // "average" or "modal"
}

// InterviewConfig points at the interview pack file and live-state driver.
type InterviewConfig struct {
	PackFile        string `mapstructure:"pack_file"`
	LiveStateDriver string `mapstructure:"livestate_driver"` // "memory" or "redis"
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "interviewd")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// AI defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini_model", "gemini-2.5-flash")
	v.SetDefault("ai.embedding_model", "gemini-embedding-001")
	v.SetDefault("ai.openai_model", "gpt-4o")
	v.SetDefault("ai.timeout_seconds", 30)

	// Retrieval defaults
	v.SetDefault("retrieval.collection", "resumes")
	v.SetDefault("retrieval.top_k", 3)

	// Scoring defaults. The weights are the rubric contract; changing them
	// changes every stored score, so treat with care.
	v.SetDefault("scoring.strategy", "heuristic")
	v.SetDefault("scoring.relevance_weight", 2.0)
	v.SetDefault("scoring.accuracy_weight", 3.0)
	v.SetDefault("scoring.completeness_weight", 2.0)
	v.SetDefault("scoring.clarity_weight", 1.0)

	// Engagement defaults
	v.SetDefault("engagement.negative_emotions", []string{"sad", "angry", "disgusted"})
	v.SetDefault("engagement.distracted_gazes", []string{"down", "away"})
	v.SetDefault("engagement.tone_window", 3)
	v.SetDefault("engagement.tone_strategy", "average")

	// Interview defaults
	v.SetDefault("interview.pack_file", "config/interview.yaml")
	v.SetDefault("interview.livestate_driver", "memory")
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("INTERVIEWD") // e.g., INTERVIEWD_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
