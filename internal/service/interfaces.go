package service

import (
	"context"

	"github.com/MKhiriev/go-user-accounts/internal/mailer"
	"github.com/MKhiriev/go-user-accounts/models"
)

// AccountService drives the account lifecycle state machine:
// Registered (unconfirmed) -> Confirmed, with password recovery available
// from either state.
type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	ConfirmEmail(ctx context.Context, userID int64, code string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	GetUser(ctx context.Context, userID int64) (models.User, error)
}

// AuthService issues and validates bearer tokens for authenticated sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.User, models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// MailQueue accepts outbound messages for asynchronous delivery.
// Enqueue must never block the caller.
type MailQueue interface {
	Enqueue(msg mailer.Message)
}
