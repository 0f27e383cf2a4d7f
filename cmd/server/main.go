package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-user-accounts/internal/config"
	myHTTP "github.com/MKhiriev/go-user-accounts/internal/handler/http"
	"github.com/MKhiriev/go-user-accounts/internal/logger"
	"github.com/MKhiriev/go-user-accounts/internal/mailer"
	"github.com/MKhiriev/go-user-accounts/internal/server"
	"github.com/MKhiriev/go-user-accounts/internal/service"
	"github.com/MKhiriev/go-user-accounts/internal/store"
	"github.com/MKhiriev/go-user-accounts/internal/token"
	"github.com/MKhiriev/go-user-accounts/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("accounts-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Msg("received configs")

	db, err := store.NewConnectPostgres(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	storages := store.NewStorages(db, log)

	// SMTP unless no host is configured; log-only keeps local runs working
	var sender mailer.Sender
	if cfg.Mail.Host != "" {
		sender = mailer.NewSMTPSender(cfg.Mail)
	} else {
		log.Warn().Msg("no SMTP host configured, outbound email is log-only")
		sender = mailer.NewLogSender(log)
	}

	dispatcher := workers.NewMailDispatcher(sender, cfg.Workers.MailQueueSize, log)
	workers.NewWorkers(dispatcher).Run()

	tokens := token.NewManager(cfg.App)
	services := service.NewServices(*storages, tokens, dispatcher, *cfg, log)

	handler := myHTTP.NewHandler(services, cfg.App, log)

	srv, err := server.NewServer(handler.Init(), cfg.Server, log, dispatcher.Close)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
