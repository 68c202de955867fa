package infrastructure

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for one pipeline run. It is passed
// explicitly into the orchestrator at run start; there is no
// process-wide mutable state.
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// OpenRouter API settings
	OpenRouterAPIKey  string `json:"-"` // Don't expose in JSON
	OpenRouterBaseURL string `json:"openrouter_base_url"`
	TextModel         string `json:"text_model"`
	ImageModel        string `json:"image_model"`

	// Mail settings
	SMTPHost     string   `json:"smtp_host"`
	SMTPPort     int      `json:"smtp_port"`
	SMTPUsername string   `json:"-"` // Don't expose in JSON
	SMTPPassword string   `json:"-"` // Don't expose in JSON
	MailFrom     string   `json:"mail_from"`
	MailTo       []string `json:"mail_to"`

	// Datastore settings
	DatabaseDSN   string `json:"-"` // Don't expose in JSON
	ArchiveBucket string `json:"archive_bucket"`

	// Run identity
	SlugPrefix string `json:"slug_prefix"`

	// Webhook settings
	WebhookAuthToken string `json:"-"` // Don't expose in JSON

	// Sources
	SourcesFile string `json:"sources_file"`

	// Filter thresholds
	WindowHours      int `json:"window_hours"`
	MinContentLength int `json:"min_content_length"`

	// Synthesis settings
	TargetArticleChars int `json:"target_article_chars"`

	// Illustration settings
	MaxIllustrations    int `json:"max_illustrations"`
	IllustrationRetries int `json:"illustration_retries"`
	IllustrationDelayMs int `json:"illustration_delay_ms"`

	// Feature toggles
	EnableSynthesis            bool `json:"enable_synthesis"`
	EnableIllustrations        bool `json:"enable_illustrations"`
	EnableIllustrationFallback bool `json:"enable_illustration_fallback"`
	EnableMail                 bool `json:"enable_mail"`
	EnableArchive              bool `json:"enable_archive"`

	// Output settings
	OutputDir string `json:"output_dir"`

	// Scheduling (cmd/server only)
	CronSchedule string `json:"cron_schedule"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		Host:              getEnvOrDefault("HOST", "0.0.0.0"),
		OpenRouterAPIKey:  getEnvOrDefault("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		TextModel:         getEnvOrDefault("TEXT_MODEL", "google/gemini-2.0-flash-exp:free"),
		ImageModel:        getEnvOrDefault("IMAGE_MODEL", "google/gemini-2.5-flash-image-preview"),

		SMTPHost:     getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:     getEnvOrDefaultInt("SMTP_PORT", 587),
		SMTPUsername: getEnvOrDefault("SMTP_USERNAME", ""),
		SMTPPassword: getEnvOrDefault("SMTP_PASSWORD", ""),
		MailFrom:     getEnvOrDefault("MAIL_FROM", ""),
		MailTo:       parseStringSlice(getEnvOrDefault("MAIL_TO", "")),

		DatabaseDSN:   getEnvOrDefault("DATABASE_DSN", ""),
		ArchiveBucket: getEnvOrDefault("ARCHIVE_BUCKET", "chain-daily-archive"),

		SlugPrefix: getEnvOrDefault("SLUG_PREFIX", "chain-daily"),

		WebhookAuthToken: getEnvOrDefault("WEBHOOK_AUTH_TOKEN", ""),

		SourcesFile: getEnvOrDefault("SOURCES_FILE", "sources.yaml"),

		WindowHours:      getEnvOrDefaultInt("WINDOW_HOURS", 24),
		MinContentLength: getEnvOrDefaultInt("MIN_CONTENT_LENGTH", 30),

		TargetArticleChars: getEnvOrDefaultInt("TARGET_ARTICLE_CHARS", 8000),

		MaxIllustrations:    getEnvOrDefaultInt("MAX_ILLUSTRATIONS", 5),
		IllustrationRetries: getEnvOrDefaultInt("ILLUSTRATION_RETRIES", 3),
		IllustrationDelayMs: getEnvOrDefaultInt("ILLUSTRATION_DELAY_MS", 2000),

		EnableSynthesis:            getEnvOrDefaultBool("ENABLE_SYNTHESIS", true),
		EnableIllustrations:        getEnvOrDefaultBool("ENABLE_ILLUSTRATIONS", true),
		EnableIllustrationFallback: getEnvOrDefaultBool("ENABLE_ILLUSTRATION_FALLBACK", true),
		EnableMail:                 getEnvOrDefaultBool("ENABLE_MAIL", true),
		EnableArchive:              getEnvOrDefaultBool("ENABLE_ARCHIVE", true),

		OutputDir: getEnvOrDefault("OUTPUT_DIR", "output"),

		CronSchedule: getEnvOrDefault("CRON_SCHEDULE", "0 5 * * *"),
	}

	return config, config.validate()
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.OpenRouterAPIKey == "" {
		return &ConfigError{Field: "OPENROUTER_API_KEY", Message: "OpenRouter API key is required"}
	}
	if c.DatabaseDSN == "" {
		return &ConfigError{Field: "DATABASE_DSN", Message: "Postgres DSN is required"}
	}
	if c.EnableMail {
		if c.SMTPHost == "" {
			return &ConfigError{Field: "SMTP_HOST", Message: "SMTP host is required when mail is enabled"}
		}
		if c.MailFrom == "" {
			return &ConfigError{Field: "MAIL_FROM", Message: "sender address is required when mail is enabled"}
		}
		if len(c.MailTo) == 0 {
			return &ConfigError{Field: "MAIL_TO", Message: "at least one recipient is required when mail is enabled"}
		}
	}
	if c.MaxIllustrations < 1 {
		return &ConfigError{Field: "MAX_ILLUSTRATIONS", Message: "must be at least 1"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvOrDefaultBool returns environment variable value as bool or default if not set
func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// parseStringSlice parses comma-separated string into slice
func parseStringSlice(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
