//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/gotouchgrass/api/internal/bootstrap"
	"github.com/gotouchgrass/api/internal/domain/notify"
	"github.com/gotouchgrass/api/internal/domain/verification"
	"github.com/gotouchgrass/api/internal/infra/config"
	"github.com/gotouchgrass/api/internal/infra/email/sendgridmail"
	"github.com/gotouchgrass/api/internal/infra/llm/gemini"
	httpiface "github.com/gotouchgrass/api/internal/interface/http"
	"github.com/gotouchgrass/api/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideVerificationConfig,
		provideGeminiClient,
		provideEmailSender,
		provideSuggestionStore,
		provideEvidenceArchive,
		verification.NewService,
		notify.NewService,
		wire.Bind(new(verification.ModelClient), new(*gemini.Client)),
		wire.Bind(new(notify.EmailSender), new(*sendgridmail.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
