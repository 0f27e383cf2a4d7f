// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-user-accounts/internal/config"
	"github.com/MKhiriev/go-user-accounts/internal/logger"
	"github.com/MKhiriev/go-user-accounts/internal/mailer"
	"github.com/MKhiriev/go-user-accounts/internal/store"
	"github.com/MKhiriev/go-user-accounts/internal/token"
	"github.com/MKhiriev/go-user-accounts/internal/utils"
	"github.com/MKhiriev/go-user-accounts/models"
)

// accountService is the concrete implementation of AccountService.
//
// Every credential or confirmation change rotates the user's security stamp
// through a conditional update in the repository, which implicitly revokes all
// outstanding confirmation and reset codes issued before the change.
type accountService struct {
	// userRepository is the data-access layer used to create, look up and
	// conditionally update users.
	userRepository store.UserRepository

	// tokens issues and parses the purpose-scoped codes embedded in
	// confirmation and reset e-mails.
	tokens *token.Manager

	// mail is the asynchronous delivery queue. Enqueue never blocks and
	// delivery failures never fail the primary operation.
	mail MailQueue

	// baseURL is the public base URL used to build callback links.
	baseURL string

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAccountService constructs an AccountService wired to the given
// UserRepository, token manager and mail queue.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAccountService(userRepository store.UserRepository, tokens *token.Manager, mail MailQueue, cfg config.App, logger *logger.Logger) AccountService {
	return &accountService{
		userRepository: userRepository,
		tokens:         tokens,
		mail:           mail,
		baseURL:        cfg.BaseURL,
		logger:         logger,
	}
}

// Register creates a new unconfirmed user account.
//
// The request is validated field by field (presence, e-mail shape, password
// strength); the password is bcrypt-hashed before it reaches the repository;
// the account starts unconfirmed with a fresh security stamp. After the row
// is committed a confirmation e-mail is enqueued; any failure on that path is
// logged and never fails the registration.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - A *ValidationError listing the rejected fields.
//   - A wrapped storage error if the repository call fails (e.g. e-mail or
//     username already taken, see store.ErrEmailAlreadyExists and
//     store.ErrUsernameAlreadyExists).
func (s *accountService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := validateRegisterRequest(req); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("register request rejected")
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		Username:      req.Username,
		Email:         req.Email,
		Name:          req.Name,
		Surname:       req.Surname,
		PasswordHash:  string(hash),
		SecurityStamp: utils.NewSecurityStamp(),
	}

	createdUser, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	s.enqueueConfirmationEmail(ctx, createdUser)

	return createdUser, nil
}

// ConfirmEmail transitions the account into the confirmed state.
//
// The code must be a valid email-confirmation token issued for exactly this
// user and must carry the user's current security stamp. Confirming an
// already-confirmed account with a still-valid code succeeds without a
// database write.
//
// Returns nil on success or:
//   - ErrUserNotFound if no user with userID exists.
//   - ErrInvalidToken for any code failure, including a stamp rotated by a
//     concurrent operation.
func (s *accountService) ConfirmEmail(ctx context.Context, userID int64, code string) error {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Warn().Int64("user_id", userID).Msg("confirmation requested for unknown user")
			return ErrUserNotFound
		}
		return fmt.Errorf("user search by id failed: %w", err)
	}

	if _, err := s.parseCodeForUser(ctx, code, token.PurposeEmailConfirmation, user); err != nil {
		return err
	}

	if user.EmailConfirmed {
		// repeat confirmation with a still-valid code is harmless
		return nil
	}

	if _, err := s.userRepository.ConfirmEmail(ctx, user.UserID, user.SecurityStamp, utils.NewSecurityStamp()); err != nil {
		if errors.Is(err, store.ErrStampConflict) {
			log.Warn().Int64("user_id", user.UserID).Msg("confirmation lost the stamp race")
			return ErrInvalidToken
		}
		return fmt.Errorf("email confirmation failed: %w", err)
	}

	return nil
}

// ForgotPassword starts the password recovery flow for the given e-mail.
//
// Missing and unconfirmed accounts both yield ErrNotEligible, so a caller
// cannot distinguish "no such account" from "account not confirmed yet".
// For eligible accounts a reset code is issued and the reset e-mail is
// enqueued for asynchronous delivery.
func (s *accountService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return ErrInvalidDataProvided
	}

	user, err := s.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Info().Str("email", email).Msg("password recovery requested for unknown email")
			return ErrNotEligible
		}
		return fmt.Errorf("user search by email failed: %w", err)
	}

	if !user.EmailConfirmed {
		log.Info().Int64("user_id", user.UserID).Msg("password recovery requested for unconfirmed account")
		return ErrNotEligible
	}

	code, err := s.tokens.Issue(user, token.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("reset code issue failed: %w", err)
	}

	link := s.callbackURL("/Account/ResetPassword", url.Values{
		"email": {user.Email},
		"code":  {code},
	})

	msg, err := mailer.BuildPasswordResetEmail(user.Email, user.Name, link)
	if err != nil {
		return fmt.Errorf("building reset email failed: %w", err)
	}

	s.mail.Enqueue(msg)

	return nil
}

// ResetPassword replaces the user's password using a reset code obtained via
// ForgotPassword. The confirmation state of the account is left untouched.
//
// The conditional update rotates the security stamp, so a successful reset
// invalidates every outstanding code of both purposes. Of two concurrent
// resets one loses the stamp race and observes ErrInvalidToken.
//
// Returns nil on success or:
//   - ErrInvalidDataProvided if email, code or password is empty.
//   - ErrWeakPassword if the new password fails the entropy policy.
//   - ErrUserNotFound if no account with the given e-mail exists.
//   - ErrInvalidToken for any code failure.
func (s *accountService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	log := logger.FromContext(ctx)

	if req.Email == "" || req.Code == "" || req.Password == "" {
		return ErrInvalidDataProvided
	}

	if err := validatePasswordStrength(req.Password); err != nil {
		return err
	}

	user, err := s.userRepository.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Warn().Str("email", req.Email).Msg("password reset requested for unknown email")
			return ErrUserNotFound
		}
		return fmt.Errorf("user search by email failed: %w", err)
	}

	if _, err := s.parseCodeForUser(ctx, req.Code, token.PurposePasswordReset, user); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}

	if _, err := s.userRepository.UpdatePassword(ctx, user.UserID, string(hash), user.SecurityStamp, utils.NewSecurityStamp()); err != nil {
		if errors.Is(err, store.ErrStampConflict) {
			log.Warn().Int64("user_id", user.UserID).Msg("password reset lost the stamp race")
			return ErrInvalidToken
		}
		return fmt.Errorf("password update failed: %w", err)
	}

	return nil
}

// GetUser returns the user record for the given identifier.
func (s *accountService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return user, nil
}

// parseCodeForUser validates a purpose-scoped code against the given user:
// signature, expiry, issuer and purpose via the token manager, then ownership
// and the security-stamp snapshot. Every failure collapses to ErrInvalidToken;
// the sub-reason is logged.
func (s *accountService) parseCodeForUser(ctx context.Context, code string, purpose token.Purpose, user models.User) (*token.Claims, error) {
	log := logger.FromContext(ctx)

	claims, err := s.tokens.Parse(code, purpose)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", user.UserID).Str("purpose", string(purpose)).Msg("code rejected")
		return nil, ErrInvalidToken
	}

	tokenUserID, err := claims.UserID()
	if err != nil || tokenUserID != user.UserID {
		log.Warn().Int64("user_id", user.UserID).Str("purpose", string(purpose)).Msg("code belongs to a different user")
		return nil, ErrInvalidToken
	}

	if !claims.MatchesStamp(user.SecurityStamp) {
		log.Warn().Err(token.ErrStampMismatch).Int64("user_id", user.UserID).Str("purpose", string(purpose)).Msg("code rejected")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// enqueueConfirmationEmail issues a confirmation code for user and enqueues
// the confirmation e-mail. Failures are logged only: the registration that
// triggered the e-mail has already committed and must not be rolled back.
func (s *accountService) enqueueConfirmationEmail(ctx context.Context, user models.User) {
	log := logger.FromContext(ctx)

	code, err := s.tokens.Issue(user, token.PurposeEmailConfirmation)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.UserID).Msg("confirmation code issue failed")
		return
	}

	link := s.callbackURL("/Account/ConfirmEmail", url.Values{
		"userId": {strconv.FormatInt(user.UserID, 10)},
		"code":   {code},
	})

	msg, err := mailer.BuildConfirmationEmail(user.Email, user.Name, link)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.UserID).Msg("building confirmation email failed")
		return
	}

	s.mail.Enqueue(msg)
}

func (s *accountService) callbackURL(path string, query url.Values) string {
	return s.baseURL + path + "?" + query.Encode()
}
