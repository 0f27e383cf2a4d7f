package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// userColumns is the canonical column list scanned into a [models.User].
var userColumns = []string{
	"user_id",
	"username",
	"email",
	"name",
	"surname",
	"password_hash",
	"email_confirmed",
	"security_stamp",
	"created_at",
	"updated_at",
}

const (
	createUser = `INSERT INTO users (username, email, name, surname, password_hash, security_stamp)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING user_id, username, email, name, surname, password_hash, email_confirmed, security_stamp, created_at, updated_at;`

	findUserByEmail = `SELECT user_id, username, email, name, surname, password_hash, email_confirmed, security_stamp, created_at, updated_at
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT user_id, username, email, name, surname, password_hash, email_confirmed, security_stamp, created_at, updated_at
    FROM users
    WHERE user_id = $1;`
)

// psql is the statement builder configured for PostgreSQL placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// returningUsers is the RETURNING clause matching [userColumns].
var returningUsers = "RETURNING " + strings.Join(userColumns, ", ")

// buildUpdatePasswordQuery builds the conditional UPDATE that replaces the
// password hash and rotates the security stamp. The WHERE clause compares the
// stored stamp against the caller's snapshot, making the whole statement a
// single atomic compare-and-swap: zero affected rows means the stamp rotated
// concurrently.
func buildUpdatePasswordQuery(userID int64, newHash, expectedStamp, newStamp string) (string, []any, error) {
	return psql.Update("users").
		Set("password_hash", newHash).
		Set("security_stamp", newStamp).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"security_stamp": expectedStamp}).
		Suffix(returningUsers).
		ToSql()
}

// buildConfirmEmailQuery builds the conditional UPDATE that marks the e-mail
// as confirmed and rotates the security stamp, with the same compare-and-swap
// shape as buildUpdatePasswordQuery.
func buildConfirmEmailQuery(userID int64, expectedStamp, newStamp string) (string, []any, error) {
	return psql.Update("users").
		Set("email_confirmed", true).
		Set("security_stamp", newStamp).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"security_stamp": expectedStamp}).
		Suffix(returningUsers).
		ToSql()
}
