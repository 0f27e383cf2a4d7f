package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-accounts/internal/logger"
	"github.com/MKhiriev/go-user-accounts/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles user account creation, lookup, and stamp-conditional mutation
// against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// scanUser scans a single users-table row in [userColumns] order.
func scanUser(row *sql.Row, user *models.User) error {
	return row.Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.Surname,
		&user.PasswordHash,
		&user.EmailConfirmed,
		&user.SecurityStamp,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt, UpdatedAt).
//
// The INSERT uses the [createUser] prepared query which returns all columns
// via a RETURNING clause, so the caller receives the canonical database
// representation of the newly created account.
//
// Error handling:
//   - unique_violation (23505) on the e-mail constraint → [ErrEmailAlreadyExists].
//   - unique_violation (23505) on the username constraint → [ErrUsernameAlreadyExists].
//   - Transient driver errors → wrapped [ErrStorageUnavailable].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.Username, user.Email, user.Name, user.Surname, user.PasswordHash, user.SecurityStamp)

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: insert failed")

		if postgresError(err) == pgerrcode.UniqueViolation {
			switch postgresConstraint(err) {
			case "users_username_key":
				return models.User{}, ErrUsernameAlreadyExists
			default:
				return models.User{}, ErrEmailAlreadyExists
			}
		}
		return models.User{}, r.db.wrapUnexpected(err)
	}

	// scan saved user from db
	if err := scanUser(row, &user); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}

// FindUserByEmail retrieves the user record whose e-mail matches the given
// address.
//
// Error handling:
//   - Empty result set → [ErrNoUserWasFound].
//   - Transient driver errors → wrapped [ErrStorageUnavailable].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, findUserByEmail, email)
}

// FindUserByID retrieves the user record with the given identifier.
// Error handling mirrors [userRepository.FindUserByEmail].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, findUserByID, userID)
}

func (r *userRepository) findUser(ctx context.Context, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	var foundUser models.User
	row := r.db.QueryRowContext(ctx, query, arg)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error: query failed")
		return models.User{}, r.db.wrapUnexpected(err)
	}

	if err := scanUser(row, &foundUser); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return foundUser, nil
}

// UpdatePassword atomically replaces the password hash and rotates the
// security stamp of the user identified by userID, provided the stored stamp
// still equals expectedStamp.
//
// The conditional UPDATE is the compare-and-swap that guarantees two
// concurrent token-consuming operations cannot both succeed: the statement
// matching zero rows means another operation rotated the stamp first and the
// caller receives [ErrStampConflict].
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, newHash, expectedStamp, newStamp string) (models.User, error) {
	query, args, err := buildUpdatePasswordQuery(userID, newHash, expectedStamp, newStamp)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.conditionalUpdate(ctx, query, args)
}

// ConfirmEmail atomically marks the user's e-mail as confirmed and rotates
// the security stamp, with the same compare-and-swap semantics as
// [userRepository.UpdatePassword].
func (r *userRepository) ConfirmEmail(ctx context.Context, userID int64, expectedStamp, newStamp string) (models.User, error) {
	query, args, err := buildConfirmEmailQuery(userID, expectedStamp, newStamp)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.conditionalUpdate(ctx, query, args)
}

func (r *userRepository) conditionalUpdate(ctx context.Context, query string, args []any) (models.User, error) {
	log := logger.FromContext(ctx)

	var updatedUser models.User
	row := r.db.QueryRowContext(ctx, query, args...)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.conditionalUpdate").Msg("error: update failed")
		return models.User{}, r.db.wrapUnexpected(err)
	}

	if err := scanUser(row, &updatedUser); err != nil {
		// Zero matched rows: the stamp rotated between the caller's read and
		// this update. The caller lost the race and its token is stale.
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrStampConflict
		}
		log.Err(err).Str("func", "*userRepository.conditionalUpdate").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return updatedUser, nil
}
