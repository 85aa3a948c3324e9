package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const (
	mysqlDuplicateEntry      = 1062
	postgresUniqueViolation  = "23505"
	sqliteUniqueMessageToken = "UNIQUE constraint failed"
)

// translateGormError maps GORM's missing-row error onto ErrNotFound
func translateGormError(err error) error {
	if err == nil {
		return nil
	}
	if isRecordNotFound(err) {
		return ErrNotFound
	}
	return err
}

// isDuplicateKey reports whether err is a unique-constraint violation from
// any of the supported SQL dialects.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return strings.Contains(err.Error(), sqliteUniqueMessageToken)
}
