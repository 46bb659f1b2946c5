package run

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/orris-inc/newsdigest/internal/application/digest/usecases"
	"github.com/orris-inc/newsdigest/internal/infrastructure/config"
	"github.com/orris-inc/newsdigest/internal/infrastructure/email"
	"github.com/orris-inc/newsdigest/internal/infrastructure/news"
	"github.com/orris-inc/newsdigest/internal/infrastructure/ratelimit"
	"github.com/orris-inc/newsdigest/internal/infrastructure/template"
	"github.com/orris-inc/newsdigest/internal/infrastructure/translation"
	"github.com/orris-inc/newsdigest/internal/shared/biztime"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
	"github.com/orris-inc/newsdigest/internal/shared/services/markdown"
	"github.com/orris-inc/newsdigest/internal/shared/utils"
)

var (
	dryRun     bool
	configPath string
	envFile    string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Fetch, translate and deliver today's digest",
		Long:         `Fetch top stories for the configured sections, translate them in one batch, render the HTML digest and mail it to every recipient.`,
		RunE:         run,
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Write "+email.DryRunFilename+" instead of sending email")
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "Path to the JSON config file")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Env file with secrets (default .env if present)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := cfg.Validate(!dryRun); err != nil {
		log.Errorw("invalid configuration", "error", err)
		return err
	}
	log.Infow("configuration loaded",
		"config", configPath,
		"sections", cfg.APISections,
		"recipients", len(cfg.RecipientEmails),
		"nyt_api_key", utils.MaskSecret(cfg.Secrets.NYTAPIKey),
		"dry_run", dryRun,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runDigest, cleanup, err := build(ctx, cfg, log)
	if err != nil {
		log.Errorw("failed to initialize digest pipeline", "error", err)
		return err
	}
	defer cleanup()

	result, err := runDigest.Execute(ctx, usecases.RunDigestCommand{
		Sections:       cfg.APISections,
		MaxPerSection:  cfg.MaxStoriesPerSection,
		TargetLanguage: cfg.TargetLanguage,
		Recipients:     cfg.RecipientEmails,
		DryRun:         dryRun,
		BriefingTitle:  cfg.BriefingTitle,
		EmailSubject:   cfg.EmailSubject,
		IntroMarkdown:  cfg.IntroMarkdown,
	})
	if err != nil {
		log.Errorw("digest run failed", "error", err)
		return err
	}

	if result.Delivery != nil && result.Delivery.Report != nil {
		for _, f := range result.Delivery.Report.Failed {
			log.Warnw("recipient not delivered",
				"recipient", utils.MaskEmail(f.Recipient),
				"error", f.Err,
			)
		}
	}
	return nil
}

// build wires the pipeline. The returned cleanup releases network clients.
func build(ctx context.Context, cfg *config.Config, log logger.Interface) (*usecases.RunDigestUseCase, func(), error) {
	cleanup := func() {}

	clock, err := biztime.NewClock(cfg.Timezone)
	if err != nil {
		return nil, cleanup, err
	}

	retrier := news.NewRetrier(news.RetryPolicy{
		MaxAttempts: cfg.News.MaxAttempts,
		BaseDelay:   cfg.News.BackoffBase(),
	}, ratelimit.Sleep, log.Named("retry"))

	client := news.NewNYTClient(news.NYTConfig{
		BaseURL: cfg.News.BaseURL,
		APIKey:  cfg.Secrets.NYTAPIKey,
		Timeout: cfg.News.Timeout(),
	}, retrier, log.Named(news.ProviderNYT))

	var pacer usecases.Pacer = ratelimit.NewFixedDelayPacer(cfg.News.PacingDelay(), ratelimit.Sleep)
	if cfg.RateLimit.Backend == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnw("redis unavailable, using local pacing only",
				"address", cfg.Redis.GetAddr(),
				"error", err,
			)
			redisClient.Close()
		} else {
			log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
			cleanup = func() { redisClient.Close() }
			budget := ratelimit.RateLimitConfig{
				RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
				RequestsPerDay:    cfg.RateLimit.RequestsPerDay,
			}
			pacer = ratelimit.NewSharedBudgetPacer(pacer, ratelimit.NewRedisRateLimiter(redisClient),
				ratelimit.SharedBudgetOptions{Key: cfg.RateLimit.Key, Config: budget},
				log.Named("pacer"))
		}
	}

	translator, err := translation.NewGoogleTranslator(ctx, translation.GoogleConfig{
		CredentialsFile: cfg.Secrets.GoogleCredentials,
		APIKey:          cfg.Secrets.TranslateAPIKey,
		Endpoint:        cfg.Translate.Endpoint,
		Timeout:         cfg.Translate.Timeout(),
	}, log.Named("translation"))
	if err != nil {
		return nil, cleanup, err
	}

	templates, err := template.NewDigestTemplateLoader(cfg.TemplatePath, log).Load()
	if err != nil {
		return nil, cleanup, err
	}
	renderer := template.NewRenderer(templates, markdown.NewService())

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:           cfg.Email.SMTPHost,
		Port:           cfg.Email.SMTPPort,
		Username:       cfg.Secrets.EmailHostUser,
		Password:       cfg.Secrets.EmailHostPassword,
		FromAddress:    cfg.Secrets.EmailHostUser,
		FromName:       cfg.Email.FromName,
		SendsPerMinute: cfg.Email.SendsPerMinute,
	}, log.Named("email"))
	writer := email.NewFileWriter("", log)

	return usecases.NewRunDigestUseCase(
		usecases.NewFetchStoriesUseCase(client, pacer, log),
		usecases.NewTranslateStoriesUseCase(translator, log),
		usecases.NewRenderDigestUseCase(renderer, log),
		usecases.NewDeliverDigestUseCase(sender, writer, log),
		clock,
		log,
	), cleanup, nil
}
