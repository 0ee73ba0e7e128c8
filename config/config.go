package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Storage
	SQLite SQLiteConfig
	Redis  RedisConfig

	// Chat platform and collaborators
	Telegram       TelegramConfig
	Intent         IntentConfig
	GoogleCalendar GoogleCalendarConfig

	// LLM Provider Abstraction
	LLM LLMConfig

	// Reminder domain
	Reminder  ReminderConfig
	Scheduler SchedulerConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type SQLiteConfig struct {
	Path string
}

// RedisConfig configures the shared claim store. An empty Addr selects the
// in-process claim store, which is only correct for a single replica.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TelegramConfig struct {
	BotToken        string
	WebhookURL      string
	WebhookSecret   string
	AdminChatID     int64
	RateLimitPerMin int
}

type IntentConfig struct {
	URL     string
	Timeout time.Duration
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	CalendarID      string
}

// LLMConfig holds configuration for the LLM provider abstraction layer.
type LLMConfig struct {
	Providers         []ProviderConfig
	Models            []ModelConfig
	Prompts           map[string]string
	DefaultModel      string
	DefaultPrompt     string
	Timeout           time.Duration
	HeartbeatInterval time.Duration
	Temperature       float64
	TopP              float64
	FrequencyPenalty  float64
	PresencePenalty   float64
}

// ProviderConfig holds configuration for a single OpenAI-compatible provider.
type ProviderConfig struct {
	Name    string
	Enabled bool
	APIKey  string
	BaseURL string
}

// ModelConfig describes a model's token budget and history window.
type ModelConfig struct {
	Name              string
	Provider          string
	MaxRequestTokens  int
	ContextWindow     int
	TimeWindowMinutes int
}

type ReminderConfig struct {
	DedupWindow     time.Duration
	DedupThreshold  float64
	NormalizerModel string
	DefaultTimezone string
}

type SchedulerConfig struct {
	Enabled  bool
	Lookback time.Duration
	Location string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Storage
	cfg.SQLite.Path = viper.GetString("sqlite.path")
	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = expandEnvVar(viper.GetString("redis.password"))
	cfg.Redis.DB = viper.GetInt("redis.db")

	// Telegram
	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	cfg.Telegram.WebhookSecret = viper.GetString("telegram.webhook_secret")
	cfg.Telegram.AdminChatID = viper.GetInt64("telegram.admin_chat_id")
	cfg.Telegram.RateLimitPerMin = viper.GetInt("telegram.rate_limit_per_min")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}

	// Intent classifier
	cfg.Intent.URL = viper.GetString("intent.url")
	cfg.Intent.Timeout = viper.GetDuration("intent.timeout")

	// Google Calendar (optional mirror for group reminders)
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// LLM
	cfg.LLM.DefaultModel = viper.GetString("llm.default_model")
	cfg.LLM.DefaultPrompt = viper.GetString("llm.default_prompt")
	cfg.LLM.Timeout = viper.GetDuration("llm.timeout")
	cfg.LLM.HeartbeatInterval = viper.GetDuration("llm.heartbeat_interval")
	cfg.LLM.Temperature = viper.GetFloat64("llm.temperature")
	cfg.LLM.TopP = viper.GetFloat64("llm.top_p")
	cfg.LLM.FrequencyPenalty = viper.GetFloat64("llm.frequency_penalty")
	cfg.LLM.PresencePenalty = viper.GetFloat64("llm.presence_penalty")
	cfg.LLM.Prompts = viper.GetStringMapString("llm.prompts")

	for _, providerMap := range mapList(viper.Get("llm.providers")) {
		cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{
			Name:    getStringFromMap(providerMap, "name"),
			Enabled: getBoolFromMap(providerMap, "enabled"),
			APIKey:  expandEnvVar(getStringFromMap(providerMap, "api_key")),
			BaseURL: getStringFromMap(providerMap, "base_url"),
		})
	}
	for _, modelMap := range mapList(viper.Get("llm.models")) {
		cfg.LLM.Models = append(cfg.LLM.Models, ModelConfig{
			Name:              getStringFromMap(modelMap, "name"),
			Provider:          getStringFromMap(modelMap, "provider"),
			MaxRequestTokens:  getIntFromMap(modelMap, "max_request_tokens"),
			ContextWindow:     getIntFromMap(modelMap, "context_window"),
			TimeWindowMinutes: getIntFromMap(modelMap, "time_window_minutes"),
		})
	}

	// Reminder & scheduler
	cfg.Reminder.DedupWindow = viper.GetDuration("reminder.dedup_window")
	cfg.Reminder.DedupThreshold = viper.GetFloat64("reminder.dedup_threshold")
	cfg.Reminder.NormalizerModel = viper.GetString("reminder.normalizer_model")
	cfg.Reminder.DefaultTimezone = viper.GetString("reminder.default_timezone")
	cfg.Scheduler.Enabled = viper.GetBool("scheduler.enabled")
	cfg.Scheduler.Lookback = viper.GetDuration("scheduler.lookback")
	cfg.Scheduler.Location = viper.GetString("scheduler.location")

	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("sqlite.path", "reminders.db")
	viper.SetDefault("telegram.rate_limit_per_min", 30)
	viper.SetDefault("intent.timeout", "5s")

	// LLM defaults
	viper.SetDefault("llm.timeout", "180s")
	viper.SetDefault("llm.heartbeat_interval", "4s")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.top_p", 1.0)
	viper.SetDefault("llm.default_prompt", "default")

	viper.SetDefault("reminder.dedup_window", "60m")
	viper.SetDefault("reminder.dedup_threshold", 0.62)
	viper.SetDefault("reminder.default_timezone", "Europe/Moscow")

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.lookback", "30m")
	viper.SetDefault("scheduler.location", "UTC")
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// validateLLMConfig checks that every model points at an enabled provider and
// that the default model exists.
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}
	if len(cfg.Models) == 0 {
		return fmt.Errorf("no LLM models configured - please add llm.models section to config.yaml")
	}

	enabled := make(map[string]bool)
	for i, p := range cfg.Providers {
		if p.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if p.Enabled {
			enabled[p.Name] = true
		}
	}

	known := make(map[string]bool)
	for i, m := range cfg.Models {
		if m.Name == "" {
			return fmt.Errorf("model %d: name is required", i)
		}
		if !enabled[m.Provider] {
			return fmt.Errorf("model %s: provider %q is not enabled", m.Name, m.Provider)
		}
		if m.ContextWindow <= 0 || m.MaxRequestTokens <= 0 {
			return fmt.Errorf("model %s: context_window and max_request_tokens must be positive", m.Name)
		}
		known[m.Name] = true
	}

	if cfg.DefaultModel == "" {
		cfg.DefaultModel = cfg.Models[0].Name
	}
	if !known[cfg.DefaultModel] {
		return fmt.Errorf("default model %q is not configured", cfg.DefaultModel)
	}

	return nil
}

func mapList(raw interface{}) []map[string]interface{} {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
