package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// OpenAI drives generation, the matcher and the safety filters.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" required:"true"`
	ChatModel    string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`

	// Gemini (via its OpenAI-compatible endpoint) drives the evaluator.
	// Without a key the evaluator pass is skipped and replies are
	// accepted as-is.
	GoogleAPIKey   string `envconfig:"GOOGLE_API_KEY"`
	EvaluatorModel string `envconfig:"EVALUATOR_MODEL" default:"gemini-2.0-flash"`

	// Profile material: summary.md plus pre-extracted resume.txt and
	// linkedin.txt. summary.md doubles as the knowledge seed source.
	ProfileDir  string `envconfig:"PROFILE_DIR" default:"me"`
	PersonaName string `envconfig:"PERSONA_NAME" default:"Sam Shulman"`

	// Pushover notification on recorded unanswered questions.
	PushoverToken string `envconfig:"PUSHOVER_TOKEN"`
	PushoverUser  string `envconfig:"PUSHOVER_USER"`

	// SES follow-up email delivery.
	SESRegion   string `envconfig:"SES_REGION" default:"us-east-1"`
	EmailSender string `envconfig:"EMAIL_SENDER"`
	EmailOwner  string `envconfig:"EMAIL_OWNER"`

	ModelCallTimeout time.Duration `envconfig:"MODEL_CALL_TIMEOUT" default:"60s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CAREERCHAT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasEvaluator() bool {
	return c.GoogleAPIKey != ""
}

func (c *Config) HasPushover() bool {
	return c.PushoverToken != "" && c.PushoverUser != ""
}

func (c *Config) HasEmail() bool {
	return c.EmailSender != "" && c.EmailOwner != ""
}
