package config

import (
	"fmt"
	"time"
)

// DigestConfig holds the keys recognized at the top level of config.json.
type DigestConfig struct {
	APISections          []string `mapstructure:"api_sections" json:"api_sections" validate:"required,min=1,dive,required"`
	MaxStoriesPerSection int      `mapstructure:"max_stories_per_section" json:"max_stories_per_section" validate:"gt=0,lte=50"`
	TargetLanguage       string   `mapstructure:"target_language" json:"target_language" validate:"required,len=2"`
	RecipientEmails      []string `mapstructure:"recipient_emails" json:"recipient_emails" validate:"dive,required"`
	BriefingTitle        string   `mapstructure:"briefing_title" json:"briefing_title"`
	EmailSubject         string   `mapstructure:"email_subject" json:"email_subject"`
	Timezone             string   `mapstructure:"timezone" json:"timezone"`
	TemplatePath         string   `mapstructure:"template_path" json:"template_path"`
	IntroMarkdown        string   `mapstructure:"intro_markdown" json:"intro_markdown"`
}

type NewsConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	PacingDelaySeconds int    `mapstructure:"pacing_delay_seconds"`
	MaxAttempts        int    `mapstructure:"max_attempts"`
	BackoffBaseSeconds int    `mapstructure:"backoff_base_seconds"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
}

func (n *NewsConfig) PacingDelay() time.Duration {
	return time.Duration(n.PacingDelaySeconds) * time.Second
}

func (n *NewsConfig) BackoffBase() time.Duration {
	return time.Duration(n.BackoffBaseSeconds) * time.Second
}

func (n *NewsConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

type TranslateConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (t *TranslateConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

type EmailConfig struct {
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	FromName       string `mapstructure:"from_name"`
	SendsPerMinute int    `mapstructure:"sends_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RateLimitConfig struct {
	Backend           string `mapstructure:"backend"`
	Key               string `mapstructure:"key"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	RequestsPerDay    int    `mapstructure:"requests_per_day"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SecretsConfig is populated from the process environment only.
type SecretsConfig struct {
	NYTAPIKey         string
	GoogleCredentials string
	TranslateAPIKey   string
	EmailHostUser     string
	EmailHostPassword string
}

func (s *SecretsConfig) HasTranslateCredential() bool {
	return s.GoogleCredentials != "" || s.TranslateAPIKey != ""
}
