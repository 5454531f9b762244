package postgres

import (
	"accounts/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes for integrity constraint violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// writeErrorDetails describes a failed write for StoreError details, naming the
// violated constraint when the driver reports one.
func writeErrorDetails(action string, err error) string {
	kind, subject := classifyConstraintViolation(err)
	if kind == "" {
		return action
	}
	if subject == "" {
		return action + ": " + kind
	}

	return action + ": " + kind + " on " + subject
}

func classifyConstraintViolation(err error) (kind, subject string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		subject = pgErr.ConstraintName
		if subject == "" {
			subject = pgErr.ColumnName
		}

		switch pgErr.Code {
		case pgNotNullViolation:
			return "not null violation", subject
		case pgForeignKeyViolation:
			return "foreign key violation", subject
		case pgUniqueViolation:
			return "unique violation", subject
		case pgCheckViolation:
			return "check violation", subject
		}

		return "", ""
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return "unique violation", ""
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return "foreign key violation", ""
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return "check violation", ""
	}

	return "", ""
}
