package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultSystemPrompt is the persona and answer contract sent to the
// language model on every turn.
const defaultSystemPrompt = `Eres Gabo, el asistente virtual de la Ferretería Disensa en Ecuador.

Reglas:
- Responde siempre en español, de forma breve y amable.
- Solo hablas de productos de ferretería, precios, stock e instrucciones de uso o instalación.
- Cuando te pregunten por un producto, usa únicamente los datos del contexto de inventario; nunca inventes precios ni existencias.
- Si el contexto dice que no hay coincidencias, dilo claramente y sugiere preguntar por otro producto.
- Para preguntas de cómo hacer algo, responde con este formato:
  Herramientas/materiales necesarios: ...
  Pasos numerados (1., 2., 3., ...)
  Precaución: una advertencia de seguridad.
- Si la pregunta no tiene que ver con la ferretería, recuerda amablemente que solo ayudas con temas de la tienda.`

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Cache     CacheConfig
	Assistant AssistantConfig
	Monitor   MonitorConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds SQLite configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LLMConfig holds the Groq completion backend configuration. An empty
// API key is allowed and leaves the assistant in catalog-only mode.
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
}

// CacheConfig holds answer cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// AssistantConfig holds the conversational pipeline tuning
type AssistantConfig struct {
	SystemPrompt string `mapstructure:"system_prompt"`
	// FuzzyThreshold accepts fuzzy candidates in open catalog search.
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
	// ResolveFuzzyThreshold is the stricter fuzzy acceptance for
	// assistant product queries.
	ResolveFuzzyThreshold float64 `mapstructure:"resolve_fuzzy_threshold"`
	// ConfidenceGate rejects resolved top candidates below this score.
	ConfidenceGate float64 `mapstructure:"confidence_gate"`
	// PhraseThreshold accepts whole-phrase entity matches (0-100).
	PhraseThreshold float64 `mapstructure:"phrase_threshold"`
	WordBudget      int     `mapstructure:"word_budget"`
	HistoryDepth    int     `mapstructure:"history_depth"`
	SessionTimeout  time.Duration `mapstructure:"session_timeout"`
}

// MonitorConfig holds the low stock monitor configuration
type MonitorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/gabo/")

	v.SetEnvPrefix("GABO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults carry a bare setup.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.path", "gabo.db")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.groq.com")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.9)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("assistant.system_prompt", defaultSystemPrompt)
	v.SetDefault("assistant.fuzzy_threshold", 0.60)
	v.SetDefault("assistant.resolve_fuzzy_threshold", 0.75)
	v.SetDefault("assistant.confidence_gate", 0.80)
	v.SetDefault("assistant.phrase_threshold", 85.0)
	v.SetDefault("assistant.word_budget", 150)
	v.SetDefault("assistant.history_depth", 5)
	v.SetDefault("assistant.session_timeout", "30m")

	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval", "20m")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required (set GABO_DATABASE_PATH)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}

	for name, value := range map[string]float64{
		"fuzzy_threshold":         config.Assistant.FuzzyThreshold,
		"resolve_fuzzy_threshold": config.Assistant.ResolveFuzzyThreshold,
		"confidence_gate":         config.Assistant.ConfidenceGate,
	} {
		if value <= 0 || value > 1 {
			return fmt.Errorf("assistant.%s must be in (0, 1], got: %v", name, value)
		}
	}
	if config.Assistant.PhraseThreshold <= 0 || config.Assistant.PhraseThreshold > 100 {
		return fmt.Errorf("assistant.phrase_threshold must be in (0, 100], got: %v", config.Assistant.PhraseThreshold)
	}

	return nil
}
