package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every knob the service reads from the environment. It is
// parsed once in main and passed by reference into the components that need
// it; nothing else in the codebase touches os.Getenv.
type Config struct {
	Port string `env:"PORT" envDefault:"8000"`

	// StudentSecret authenticates inbound submissions. An empty value means
	// every submission is rejected.
	StudentSecret string `env:"STUDENT_SECRET"`

	GitHubToken   string `env:"GITHUB_TOKEN"`
	GitHubUser    string `env:"GITHUB_USER"`
	GitHubAPIBase string `env:"GITHUB_API_BASE" envDefault:"https://api.github.com"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	LLMModel         string        `env:"LLM_MODEL" envDefault:"gpt-5-nano"`
	LLMFallbackModel string        `env:"LLM_FALLBACK_MODEL" envDefault:"gemini-2.0-flash"`
	LLMMaxTokens     int           `env:"LLM_MAX_TOKENS" envDefault:"4096"`
	LLMTemperature   float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`

	NotifyMaxAttempts int           `env:"NOTIFY_MAX_ATTEMPTS" envDefault:"4"`
	NotifyBaseDelay   time.Duration `env:"NOTIFY_BASE_DELAY" envDefault:"1s"`
	NotifyTimeout     time.Duration `env:"API_NOTIFICATION_TIMEOUT" envDefault:"10s"`

	PagesPollInterval time.Duration `env:"PAGES_POLL_INTERVAL" envDefault:"10s"`
	PagesPollBudget   time.Duration `env:"PAGES_POLL_BUDGET" envDefault:"120s"`

	// TaskDeadline is advisory: tasks that outlive it are logged, not killed.
	TaskDeadline time.Duration `env:"TASK_DEADLINE" envDefault:"600s"`

	GitHubAPITimeout       time.Duration `env:"GITHUB_API_TIMEOUT" envDefault:"10s"`
	GitHubPushTimeout      time.Duration `env:"GITHUB_PUSH_TIMEOUT" envDefault:"30s"`
	AttachmentFetchTimeout time.Duration `env:"ATTACHMENT_FETCH_TIMEOUT" envDefault:"30s"`

	// TempBaseDir is where per-task working directories are created. Empty
	// means the OS default temp directory.
	TempBaseDir string `env:"TEMP_BASE_DIR"`

	GitUserName  string `env:"GIT_USER_NAME" envDefault:"Sitegen Builder"`
	GitUserEmail string `env:"GIT_USER_EMAIL" envDefault:"builder@sitegen.local"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config from environment: %w", err)
	}
	return &cfg, nil
}

// Credential reports whether one of the secrets the service consumes is set.
// Values are never exposed, only presence.
type Credential struct {
	Name        string
	Description string
	Present     bool
}

func (c *Config) Credentials() []Credential {
	return []Credential{
		{"STUDENT_SECRET", "shared secret checked on every submission", c.StudentSecret != ""},
		{"GITHUB_TOKEN", "GitHub personal access token", c.GitHubToken != ""},
		{"GITHUB_USER", "GitHub account that owns generated repositories", c.GitHubUser != ""},
		{"OPENAI_API_KEY", "OpenAI API key (primary provider)", c.OpenAIAPIKey != ""},
		{"GEMINI_API_KEY", "Google Gemini API key (fallback provider)", c.GeminiAPIKey != ""},
	}
}

// MissingCredentials lists credentials that are not configured. The server
// still boots without them; the affected tasks fail individually instead.
func (c *Config) MissingCredentials() []string {
	var missing []string
	for _, cred := range c.Credentials() {
		if !cred.Present {
			missing = append(missing, cred.Name)
		}
	}
	return missing
}
