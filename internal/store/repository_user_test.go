package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-user-accounts/internal/logger"
	"github.com/MKhiriev/go-user-accounts/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func pgUniqueError(constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
}

func userRows(u models.User, now time.Time) *sqlmock.Rows {
	return sqlmock.
		NewRows(userColumns).
		AddRow(u.UserID, u.Username, u.Email, u.Name, u.Surname, u.PasswordHash, u.EmailConfirmed, u.SecurityStamp, now, now)
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Username:      "john",
		Email:         "john@example.com",
		Name:          "John",
		Surname:       "Doe",
		PasswordHash:  "hash",
		SecurityStamp: "stamp-1",
	}
	saved := user
	saved.UserID = 1

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.Email, user.Name, user.Surname, user.PasswordHash, user.SecurityStamp).
		WillReturnRows(userRows(saved, time.Now()))

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if created.EmailConfirmed {
		t.Error("expected new user to be unconfirmed")
	}
	if created.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, created.Email)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Username: "john", Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgUniqueError("users_email_key"))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Username: "john", Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgUniqueError("users_username_key"))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Username: "john"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(ctx, user)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestCreateUser_RetryableDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Username: "john"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.ConnectionFailure))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestCreateUser_ScanError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Username: "john"}

	rows := sqlmock.
		NewRows([]string{"user_id"}). // intentionally wrong shape → scan error
		AddRow(1)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(rows)

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrScanningRow) {
		t.Fatalf("expected ErrScanningRow, got %v", err)
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	stored := models.User{
		UserID:        1,
		Username:      "john",
		Email:         "john@example.com",
		Name:          "John",
		Surname:       "Doe",
		PasswordHash:  "hash",
		SecurityStamp: "stamp-1",
	}

	mock.ExpectQuery("SELECT user_id").
		WithArgs("john@example.com").
		WillReturnRows(userRows(stored, time.Now()))

	found, err := repo.FindUserByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Username != "john" {
		t.Errorf("expected username john, got %s", found.Username)
	}
	if found.SecurityStamp != "stamp-1" {
		t.Errorf("expected stamp-1, got %s", found.SecurityStamp)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindUserByEmail(ctx, "missing@example.com")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUserByID_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	stored := models.User{UserID: 7, Username: "jane", Email: "jane@example.com", SecurityStamp: "s"}

	mock.ExpectQuery("SELECT user_id").
		WithArgs(int64(7)).
		WillReturnRows(userRows(stored, time.Now()))

	found, err := repo.FindUserByID(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", found.UserID)
	}
}

func TestFindUserByID_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindUserByID(ctx, 404)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestUpdatePassword_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	updated := models.User{UserID: 1, Username: "john", Email: "john@example.com", PasswordHash: "new-hash", SecurityStamp: "stamp-2"}

	mock.ExpectQuery("UPDATE users").
		WithArgs("new-hash", "stamp-2", int64(1), "stamp-1").
		WillReturnRows(userRows(updated, time.Now()))

	got, err := repo.UpdatePassword(ctx, 1, "new-hash", "stamp-1", "stamp-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("expected new-hash, got %s", got.PasswordHash)
	}
	if got.SecurityStamp != "stamp-2" {
		t.Errorf("expected rotated stamp, got %s", got.SecurityStamp)
	}
}

func TestUpdatePassword_StampConflict(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	// zero matched rows: another operation rotated the stamp first
	mock.ExpectQuery("UPDATE users").
		WithArgs("new-hash", "stamp-2", int64(1), "stale-stamp").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.UpdatePassword(ctx, 1, "new-hash", "stale-stamp", "stamp-2")
	if !errors.Is(err, ErrStampConflict) {
		t.Fatalf("expected ErrStampConflict, got %v", err)
	}
}

func TestConfirmEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	updated := models.User{UserID: 1, Username: "john", Email: "john@example.com", EmailConfirmed: true, SecurityStamp: "stamp-2"}

	mock.ExpectQuery("UPDATE users").
		WithArgs(true, "stamp-2", int64(1), "stamp-1").
		WillReturnRows(userRows(updated, time.Now()))

	got, err := repo.ConfirmEmail(ctx, 1, "stamp-1", "stamp-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.EmailConfirmed {
		t.Error("expected EmailConfirmed=true")
	}
}

func TestConfirmEmail_StampConflict(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("UPDATE users").
		WithArgs(true, "stamp-2", int64(1), "stale-stamp").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.ConfirmEmail(ctx, 1, "stale-stamp", "stamp-2")
	if !errors.Is(err, ErrStampConflict) {
		t.Fatalf("expected ErrStampConflict, got %v", err)
	}
}

func TestBuildUpdatePasswordQuery_Shape(t *testing.T) {
	query, args, err := buildUpdatePasswordQuery(1, "hash", "old", "new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(query, "UPDATE users") {
		t.Errorf("expected UPDATE users, got %q", query)
	}
	if !strings.Contains(query, "security_stamp") {
		t.Errorf("expected security_stamp in query, got %q", query)
	}
	if !strings.Contains(query, "RETURNING") {
		t.Errorf("expected RETURNING clause, got %q", query)
	}
	if len(args) != 4 {
		t.Errorf("expected 4 args, got %d: %v", len(args), args)
	}
}
