package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/gotouchgrass/api/internal/domain/verification"
	"github.com/gotouchgrass/api/internal/infra/config"
	"github.com/gotouchgrass/api/internal/infra/email/sendgridmail"
	"github.com/gotouchgrass/api/internal/infra/llm/gemini"
	"github.com/gotouchgrass/api/internal/infra/photoarchive"
	"github.com/gotouchgrass/api/internal/infra/suggestcache"
)

func provideVerificationConfig(cfg *config.Config) verification.Config {
	return verification.Config{
		Temperature:     cfg.LLM.Temperature,
		RoastMaxTokens:  cfg.Verify.RoastMaxTokens,
		VerifyMaxTokens: cfg.Verify.VerifyMaxTokens,
		SuggestCount:    cfg.Suggest.DefaultCount,
		CacheTTL:        cfg.Suggest.CacheTTL,
	}
}

func provideGeminiClient(cfg *config.Config, logger *slog.Logger) *gemini.Client {
	return gemini.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, logger)
}

func provideEmailSender(cfg *config.Config, logger *slog.Logger) *sendgridmail.Client {
	return sendgridmail.NewClient(cfg.Email.APIKey, cfg.Email.SenderEmail, cfg.Email.SenderName, logger)
}

func provideSuggestionStore(cfg *config.Config, logger *slog.Logger) verification.SuggestionStore {
	if cfg.Suggest.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return suggestcache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return suggestcache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("suggestion valkey store enabled", "addr", cfg.Suggest.Redis.Addr)
			return suggestcache.NewValkeyStore(client, "suggest")
		}
	}
	return suggestcache.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Suggest.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Suggest.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Suggest.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideEvidenceArchive(cfg *config.Config, logger *slog.Logger) verification.EvidenceArchive {
	if !cfg.Archive.Enabled {
		return photoarchive.Noop{}
	}
	archive, err := photoarchive.NewMinioArchive(
		cfg.Archive.Endpoint,
		cfg.Archive.AccessKey,
		cfg.Archive.SecretKey,
		cfg.Archive.Bucket,
		cfg.Archive.Region,
		logger,
	)
	if err != nil {
		logger.Error("photo archive unavailable, archiving disabled", "error", err)
		return photoarchive.Noop{}
	}
	logger.Info("photo archive enabled", "bucket", cfg.Archive.Bucket)
	return archive
}
