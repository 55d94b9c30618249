package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	AdminUserID      int64   `env:"ADMIN_USER"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Pipeline behavior
	NaturalResponses bool     `env:"NATURAL_RESPONSES" envDefault:"true"`
	PreserveIntents  []string `env:"PRESERVE_INTENTS" envSeparator:","`

	// Sessions
	SessionBackend   string        `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionDBPath    string        `env:"SESSION_DB_PATH" envDefault:"data/sessions.db"`
	SessionMaxTurns  int           `env:"SESSION_MAX_TURNS" envDefault:"8"`
	SessionTTL       time.Duration `env:"SESSION_TTL"`
	SessionCache     bool          `env:"SESSION_CACHE"`
	SessionSerialize bool          `env:"SESSION_SERIALIZE"`

	// Interaction log
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/interactions.jsonl"`

	// Notifications (optional Gmail channel)
	GmailCredentialsJSON string `env:"GMAIL_CREDENTIALS_JSON"`
	GmailTokenPath       string `env:"GMAIL_TOKEN_PATH" envDefault:"data/gmail_token.json"`

	// HTTP front end (optional)
	HTTPAddr string `env:"HTTP_ADDR"`

	// External action modules (optional MCP tool servers). Each listed tool
	// is registered as an intent of the same name.
	MCPServerPath string   `env:"MCP_SERVER_PATH"`
	MCPTools      []string `env:"MCP_TOOLS" envSeparator:","`

	Debug bool `env:"DEBUG"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.SessionMaxTurns <= 0 {
		cfg.SessionMaxTurns = 8
	}
	for i, it := range cfg.PreserveIntents {
		cfg.PreserveIntents[i] = strings.TrimSpace(it)
	}
	for i, t := range cfg.MCPTools {
		cfg.MCPTools[i] = strings.TrimSpace(t)
	}
	return cfg, nil
}

func (c *Config) IsAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}
