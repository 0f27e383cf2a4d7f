package service

import (
	"github.com/MKhiriev/go-user-accounts/internal/config"
	"github.com/MKhiriev/go-user-accounts/internal/logger"
	"github.com/MKhiriev/go-user-accounts/internal/store"
	"github.com/MKhiriev/go-user-accounts/internal/token"
)

type Services struct {
	AccountService AccountService
	AuthService    AuthService
}

func NewServices(storages store.Storages, tokens *token.Manager, mail MailQueue, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AccountService: NewAccountService(storages.UserRepository, tokens, mail, cfg.App, logger),
		AuthService:    NewAuthService(storages.UserRepository, cfg.App, logger),
	}
}
