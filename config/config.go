package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"port"`
	AIProvider     string `mapstructure:"ai_provider"` // "openai" or "gemini"
	AIEndpoint     string `mapstructure:"ai_endpoint"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`

	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	MongoURI      string `mapstructure:"MONGODB_URI"`
	MongoDatabase string `mapstructure:"mongo_database"`

	// VectorStore selects the index backend: "local" (persistent
	// in-process index under IndexDir) or "weaviate".
	VectorStore         string              `mapstructure:"vector_store"`
	IndexDir            string              `mapstructure:"index_dir"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`

	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"`
}

// RequestTimeout bounds one whole chat pipeline run.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Secrets come from the environment, never the config file.
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("MONGODB_URI")
	v.BindEnv("weaviate_store_config.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")

	v.SetDefault("port", "8080")
	v.SetDefault("ai_provider", "gemini")
	v.SetDefault("model", "gemini-1.5-flash")
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("mongo_database", "finassist")
	v.SetDefault("vector_store", "local")
	v.SetDefault("index_dir", "data/index")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
