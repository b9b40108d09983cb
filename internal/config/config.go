package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const devJWTSecret = "fallback-secret-change-in-production"

// Config holds all server configuration
type Config struct {
	HTTPAddress string

	// Storage
	DatabaseURL     string
	RedisURL        string
	MongoDBURI      string
	MongoDBDatabase string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Code generation providers, in precedence order Copilot, OpenAI, Anthropic, Gemini
	GitHubToken     string
	CopilotModel    string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	CodegenCacheTTL time.Duration
}

// placeholders are the sample values shipped in example env files
var placeholders = map[string]struct{}{
	"ghp_...":    {},
	"sk-...":     {},
	"sk-ant-...": {},
}

// IsSet reports whether a provider key holds a real value
func IsSet(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}

	_, placeholder := placeholders[key]

	return !placeholder
}

// Load reads configuration from files and environment variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string][]string{
		"HTTPAddress":     {"HTTP_ADDRESS"},
		"DatabaseURL":     {"DATABASE_URL"},
		"RedisURL":        {"REDIS_URL"},
		"MongoDBURI":      {"MONGODB_URI"},
		"MongoDBDatabase": {"MONGODB_DATABASE"},
		"JWTSecret":       {"JWT_SECRET", "NEXTAUTH_SECRET"},
		"TokenTTL":        {"TOKEN_TTL"},
		"GitHubToken":     {"GITHUB_TOKEN"},
		"CopilotModel":    {"COPILOT_MODEL"},
		"OpenAIAPIKey":    {"OPENAI_API_KEY"},
		"OpenAIModel":     {"OPENAI_MODEL"},
		"AnthropicAPIKey": {"ANTHROPIC_API_KEY"},
		"AnthropicModel":  {"ANTHROPIC_MODEL"},
		"GeminiAPIKey":    {"GEMINI_API_KEY"},
		"GeminiModel":     {"GEMINI_MODEL"},
		"CodegenCacheTTL": {"CODEGEN_CACHE_TTL"},
	}

	for configKey, envVars := range envMappings {
		input := append([]string{configKey}, envVars...)
		if err := v.BindEnv(input...); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variables %v for %s", envVars, configKey)
		}
	}

	v.SetConfigName("superbullet")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.superbullet")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	if config.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, using the development secret")
		config.JWTSecret = devJWTSecret
	}

	log.Debug().
		Str("http_address", config.HTTPAddress).
		Bool("redis", config.RedisURL != "").
		Bool("mongodb", config.MongoDBURI != "").
		Msg("Config loaded")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTPAddress", ":3000")
	v.SetDefault("MongoDBDatabase", "superbullet")
	v.SetDefault("TokenTTL", 7*24*time.Hour)
	v.SetDefault("CopilotModel", "gpt-4")
	v.SetDefault("OpenAIModel", "gpt-4")
	v.SetDefault("AnthropicModel", "claude-3-5-sonnet-20241022")
	v.SetDefault("GeminiModel", "gemini-2.0-flash")
	v.SetDefault("CodegenCacheTTL", 24*time.Hour)
}

func validateConfig(config *Config) error {
	var missingVars []string

	if config.DatabaseURL == "" {
		missingVars = append(missingVars, "DATABASE_URL")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	if config.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", config.TokenTTL)
	}

	return nil
}
