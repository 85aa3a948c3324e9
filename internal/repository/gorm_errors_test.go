package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-relations-api/internal/models"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1452, Message: "foreign key"}, false},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{"wrapped", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true},
		{"message only", errors.New("UNIQUE constraint failed: users.email"), true},
		{"unrelated", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateKey(tt.err))
		})
	}
}

func TestTranslateGormError(t *testing.T) {
	assert.NoError(t, translateGormError(nil))
	assert.ErrorIs(t, translateGormError(gorm.ErrRecordNotFound), ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translateGormError(other))
}

func TestUserCreate_MySQLDuplicateBecomesErrDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ada@example.com' for key 'users.idx_users_email'"})
	mock.ExpectRollback()

	err := NewUserRepository(db).Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskFindByID_MissingRowBecomesErrNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `tasks`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := NewTaskRepository(db).FindByID(context.Background(), missingID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskFindByID_DriverErrorPassesThrough(t *testing.T) {
	db, mock := newMockDB(t)

	driverErr := errors.New("connection refused")
	mock.ExpectQuery("SELECT \\* FROM `tasks`").WillReturnError(driverErr)

	_, err := NewTaskRepository(db).FindByID(context.Background(), missingID)

	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestTaskFind_MalformedIDsSkipQuery(t *testing.T) {
	db, mock := newMockDB(t)

	tasks, err := NewTaskRepository(db).Find(context.Background(), []string{"garbage", ""})

	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
