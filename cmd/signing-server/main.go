package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/esign-demos/embedded-signing/app/internal/config"
	"github.com/esign-demos/embedded-signing/app/internal/logger"
	"github.com/esign-demos/embedded-signing/app/internal/server"
	"github.com/esign-demos/embedded-signing/app/internal/version"
	"github.com/spf13/cobra"
)

//	@title			signing-server
//	@description	signing-server is a demo web app that embeds a document signing ceremony in a web page.
//	@description
//	@description	## Flow
//	@description	Submitting the form on `/` assembles a signing envelope (document + signer + tab
//	@description	placement), creates it via the signing API, requests an embedded recipient view
//	@description	and redirects the browser to the returned signing URL. After the ceremony the
//	@description	signing service redirects back to `/dsreturn` with an `event` query parameter.
//	@description
//	@description	## Authentication
//	@description	This demo does not acquire access tokens. Supply a pre-obtained bearer token via
//	@description	the ACCESS_TOKEN environment variable or query parameter - for example from the
//	@description	developer token generator.
//	@description
//	@description	## Request Limits
//	@description	All endpoints are protected by a global rate limit (RATE_LIMIT_RPS, set to 0 to
//	@description	disable) and a request size limit (MAX_REQUEST_SIZE). In production there may be
//	@description	additional protections such as per-IP limits at the load balancer.
//	@description
//	@license.name	MIT

//	@servers.url			http://localhost:3000
//	@servers.description	Development server

//	@tag.name			Ceremony
//	@tag.description	Embedded signing ceremony endpoints

//	@tag.name			Common
//	@tag.description	Server endpoints (health, version)

func main() {
	cmd := &cobra.Command{
		Use:   "signing-server",
		Short: "Embedded signing ceremony demo server",
		Long:  `signing-server embeds a document signing ceremony in a web page using the e-signature REST API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("API_BASE_PATH", cfg.APIBasePath),
		slog.String("DOCUMENT_PATH", cfg.DocumentPath),
		slog.String("ENVELOPE_TEMPLATE_PATH", cfg.EnvelopeTemplatePath),
		slog.Bool("ACCESS_TOKEN_SET", cfg.AccessToken != ""),
		slog.Bool("ACCOUNT_ID_SET", cfg.AccountID != ""),
	)

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := server.NewServer(cfg, appLogger)

	if err := server.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}
