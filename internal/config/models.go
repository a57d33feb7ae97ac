package config

import (
	"fmt"
	"time"
)

// ClassifierConfig represents the text classifier configuration
type ClassifierConfig struct {
	ModelPath       string
	AutoTrain       bool
	CorpusPath      string
	MaxFeatures     int
	NumTrees        int
	LearningRate    float64
	MaxDepth        int
	MinChildSamples int
	Lambda          float64
}

// TrustConfig represents the trusted domain allowlist
type TrustConfig struct {
	Domains []string
}

// TargetConfig is one typosquatting brand target
type TargetConfig struct {
	Domain   string `mapstructure:"domain"`
	Name     string `mapstructure:"name"`
	Priority int    `mapstructure:"priority"`
}

// TyposquatConfig represents the typosquatting brand table
type TyposquatConfig struct {
	Targets []TargetConfig
}

// BreakerConfig represents per-backend circuit breaker settings
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// ExplainerConfig represents the explanation backend chain configuration
type ExplainerConfig struct {
	Enabled     bool
	Backends    []string
	Mode        string
	Timeout     time.Duration
	MaxBodySize int
	Breaker     BreakerConfig
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// RedisConfig represents the Redis cache connection
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig represents the explanation cache configuration
type CacheConfig struct {
	Enabled          bool
	Type             string
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	PostgresDSN      string
	Redis            RedisConfig
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	ListenAddress string
	ReadTimeout   time.Duration
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		ModelPath:       c.GetString("classifier.model_path"),
		AutoTrain:       c.GetBool("classifier.auto_train"),
		CorpusPath:      c.GetString("classifier.corpus_path"),
		MaxFeatures:     c.GetInt("classifier.max_features"),
		NumTrees:        c.GetInt("classifier.booster.num_trees"),
		LearningRate:    c.GetFloat64("classifier.booster.learning_rate"),
		MaxDepth:        c.GetInt("classifier.booster.max_depth"),
		MinChildSamples: c.GetInt("classifier.booster.min_child_samples"),
		Lambda:          c.GetFloat64("classifier.booster.lambda"),
	}
}

// GetTrust returns the trust configuration
func (c *Config) GetTrust() TrustConfig {
	return TrustConfig{
		Domains: c.GetStringSlice("trust.domains"),
	}
}

// GetTyposquat returns the typosquatting configuration
func (c *Config) GetTyposquat() (TyposquatConfig, error) {
	var targets []TargetConfig
	if err := c.v.UnmarshalKey("typosquat.targets", &targets); err != nil {
		return TyposquatConfig{}, fmt.Errorf("invalid typosquat targets: %w", err)
	}
	return TyposquatConfig{Targets: targets}, nil
}

// GetExplainer returns the explainer configuration
func (c *Config) GetExplainer() (ExplainerConfig, error) {
	timeout, err := c.GetDuration("explainer.timeout")
	if err != nil {
		return ExplainerConfig{}, err
	}
	interval, err := c.GetDuration("explainer.breaker.interval")
	if err != nil {
		return ExplainerConfig{}, err
	}
	breakerTimeout, err := c.GetDuration("explainer.breaker.timeout")
	if err != nil {
		return ExplainerConfig{}, err
	}

	return ExplainerConfig{
		Enabled:     c.GetBool("explainer.enabled"),
		Backends:    c.GetStringSlice("explainer.backends"),
		Mode:        c.GetString("explainer.mode"),
		Timeout:     timeout,
		MaxBodySize: c.GetInt("explainer.max_body_size"),
		Breaker: BreakerConfig{
			MaxRequests:         uint32(c.GetInt("explainer.breaker.max_requests")),
			Interval:            interval,
			Timeout:             breakerTimeout,
			ConsecutiveFailures: uint32(c.GetInt("explainer.breaker.consecutive_failures")),
		},
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}

	return CacheConfig{
		Enabled:          c.GetBool("cache.enabled"),
		Type:             c.GetString("cache.type"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
		PostgresDSN:      c.GetString("cache.postgres_dsn"),
		Redis: RedisConfig{
			Addr:     c.GetString("cache.redis.addr"),
			Password: c.GetString("cache.redis.password"),
			DB:       c.GetInt("cache.redis.db"),
		},
	}, nil
}

// GetServer returns the HTTP API configuration
func (c *Config) GetServer() (ServerConfig, error) {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		ReadTimeout:   readTimeout,
	}, nil
}
