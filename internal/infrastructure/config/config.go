package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/orris-inc/newsdigest/internal/shared/config"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/utils"
)

const (
	DefaultConfigFile = "config.json"
	DefaultEnvFile    = ".env"
)

type Config struct {
	sharedConfig.DigestConfig `mapstructure:",squash"`

	News      sharedConfig.NewsConfig      `mapstructure:"news"`
	Translate sharedConfig.TranslateConfig `mapstructure:"translate"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`

	// Secrets never come from the config file.
	Secrets sharedConfig.SecretsConfig `mapstructure:"-"`
}

// Load reads the JSON config file, then the env file, then secrets from the
// process environment. A missing default env file is ignored; an explicitly
// named one must exist.
func Load(path, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigFile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetEnvPrefix("DIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.NewConfigError("failed to read config file", fmt.Sprintf("%s: %v", path, err))
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, apperrors.NewConfigError("failed to unmarshal config", err.Error())
	}
	config.Secrets = secretsFromEnv()

	return &config, nil
}

func loadEnvFile(envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	err := godotenv.Load(envFile)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return apperrors.NewConfigError("failed to load env file", fmt.Sprintf("%s: %v", envFile, err))
}

func secretsFromEnv() sharedConfig.SecretsConfig {
	return sharedConfig.SecretsConfig{
		NYTAPIKey:         os.Getenv("NYT_API_KEY"),
		GoogleCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		TranslateAPIKey:   os.Getenv("TRANSLATE_API_KEY"),
		EmailHostUser:     os.Getenv("EMAIL_HOST_USER"),
		EmailHostPassword: os.Getenv("EMAIL_HOST_PASSWORD"),
	}
}

// Validate checks presence of everything a run needs. SMTP credentials and
// recipients are only required when the digest will be mailed.
func (c *Config) Validate(requireDelivery bool) error {
	if err := utils.ValidateStruct(&c.DigestConfig); err != nil {
		return err
	}
	if _, err := utils.ValidateLanguageCode(c.TargetLanguage); err != nil {
		return err
	}

	var missing []string
	if c.Secrets.NYTAPIKey == "" {
		missing = append(missing, "NYT_API_KEY")
	}
	if !c.Secrets.HasTranslateCredential() {
		missing = append(missing, "GOOGLE_APPLICATION_CREDENTIALS or TRANSLATE_API_KEY")
	}
	if requireDelivery {
		if len(c.RecipientEmails) == 0 {
			missing = append(missing, "recipient_emails")
		}
		if c.Secrets.EmailHostUser == "" {
			missing = append(missing, "EMAIL_HOST_USER")
		}
		if c.Secrets.EmailHostPassword == "" {
			missing = append(missing, "EMAIL_HOST_PASSWORD")
		}
	}
	if len(missing) > 0 {
		return apperrors.NewConfigError("missing required configuration", strings.Join(missing, ", "))
	}

	if c.RateLimit.Backend != "" && c.RateLimit.Backend != "local" && c.RateLimit.Backend != "redis" {
		return apperrors.NewConfigError("unknown ratelimit backend", c.RateLimit.Backend)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Digest defaults
	v.SetDefault("max_stories_per_section", 5)
	v.SetDefault("briefing_title", "Daily News Digest")
	v.SetDefault("email_subject", "Daily News Digest - {date}")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("template_path", "")
	v.SetDefault("intro_markdown", "")

	// News provider defaults
	v.SetDefault("news.base_url", "https://api.nytimes.com/svc/topstories/v2")
	v.SetDefault("news.pacing_delay_seconds", 7)
	v.SetDefault("news.max_attempts", 5)
	v.SetDefault("news.backoff_base_seconds", 5)
	v.SetDefault("news.timeout_seconds", 30)

	// Translation defaults
	v.SetDefault("translate.endpoint", "")
	v.SetDefault("translate.timeout_seconds", 60)

	// Email defaults
	v.SetDefault("email.smtp_host", "smtp.gmail.com")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.from_name", "")
	v.SetDefault("email.sends_per_minute", 30)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Rate limit defaults
	v.SetDefault("ratelimit.backend", "local")
	v.SetDefault("ratelimit.key", "nyt-top-stories")
	v.SetDefault("ratelimit.requests_per_minute", 5)
	v.SetDefault("ratelimit.requests_per_day", 500)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}
