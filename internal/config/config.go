package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	Redis        RedisConfig
	Embedding    EmbeddingConfig
	LLM          LLMConfig
	Verification VerificationConfig
	Grading      GradingConfig
	CacheTTLs    CacheTTLConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type OllamaConfig struct {
	ServerURL string `yaml:"server_url"`
	Model     string `yaml:"model"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type EmbeddingConfig struct {
	Source string `yaml:"source"` // "ollama" or "openai"
	Ollama OllamaConfig
	OpenAI OpenAIConfig
}

type LLMConfig struct {
	Provider    string `yaml:"provider"` // "ollama" or "openai"
	Ollama      OllamaConfig
	OpenAI      OpenAIConfig
	Temperature float64
	Timeout     time.Duration
}

type VerificationConfig struct {
	ChunkSizeWords    int // retrieval window length in words
	TopKChunks        int // chunks kept when condensing a long document
	LongDocumentWords int // documents above this word count are chunked
	Concurrency       int // bounded worker pool for per-question verification
}

type GradingConfig struct {
	Concurrency int
}

type CacheTTLConfig struct {
	Embedding string `yaml:"embedding"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus environment
		// variables carry a full configuration.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Embedding: EmbeddingConfig{
			Source: viper.GetString("embedding.source"),
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("embedding.ollama.server_url"),
				Model:     viper.GetString("embedding.ollama.model"),
			},
			OpenAI: OpenAIConfig{
				APIKey: viper.GetString("embedding.openai.api_key"),
				Model:  viper.GetString("embedding.openai.model"),
			},
		},
		LLM: LLMConfig{
			Provider: viper.GetString("llm.provider"),
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("llm.ollama.server_url"),
				Model:     viper.GetString("llm.ollama.model"),
			},
			OpenAI: OpenAIConfig{
				APIKey: viper.GetString("llm.openai.api_key"),
				Model:  viper.GetString("llm.openai.model"),
			},
			Temperature: viper.GetFloat64("llm.temperature"),
			Timeout:     viper.GetDuration("llm.timeout") * time.Second,
		},
		Verification: VerificationConfig{
			ChunkSizeWords:    viper.GetInt("verification.chunk_size_words"),
			TopKChunks:        viper.GetInt("verification.top_k_chunks"),
			LongDocumentWords: viper.GetInt("verification.long_document_words"),
			Concurrency:       viper.GetInt("verification.concurrency"),
		},
		Grading: GradingConfig{
			Concurrency: viper.GetInt("grading.concurrency"),
		},
		CacheTTLs: CacheTTLConfig{
			Embedding: viper.GetString("cache_ttls.embedding"),
		},
	}

	// Override with environment variables if set
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if ollamaServer := os.Getenv("OLLAMA_SERVER"); ollamaServer != "" {
		config.LLM.Ollama.ServerURL = ollamaServer
		config.Embedding.Ollama.ServerURL = ollamaServer
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.LLM.OpenAI.APIKey = openAIKey
		config.Embedding.OpenAI.APIKey = openAIKey
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("embedding.source", "ollama")
	viper.SetDefault("embedding.ollama.server_url", "http://localhost:11434")
	viper.SetDefault("embedding.ollama.model", "nomic-embed-text")
	viper.SetDefault("embedding.openai.model", "text-embedding-ada-002")
	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("llm.ollama.server_url", "http://localhost:11434")
	viper.SetDefault("llm.ollama.model", "qwen3:0.6b")
	viper.SetDefault("llm.openai.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.1)
	viper.SetDefault("llm.timeout", 60)
	viper.SetDefault("verification.chunk_size_words", 500)
	viper.SetDefault("verification.top_k_chunks", 3)
	viper.SetDefault("verification.long_document_words", 1000)
	viper.SetDefault("verification.concurrency", 4)
	viper.SetDefault("grading.concurrency", 4)
	viper.SetDefault("cache_ttls.embedding", "168h")
}

// ParseTTLStringOrDefault parses a duration string like "168h", falling back
// to def when the string is empty or malformed.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	parsed, err := time.ParseDuration(ttl)
	if err != nil {
		return def
	}
	return parsed
}
