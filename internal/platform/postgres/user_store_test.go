package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/platform/postgres"
	"github.com/openbanca/bank-api/internal/store"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestUserStoreCreateReturnsID(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewUserStore(db, nil)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("mario", "hash", "Mario", "Rossi", "", "active").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))

	id, err := s.Create(context.Background(), &domain.User{
		Username:       "mario",
		HashedPassword: "hash",
		Name:           "Mario",
		Surname:        "Rossi",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreCreateMapsUniqueViolation(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewUserStore(db, nil)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.Create(context.Background(), &domain.User{Username: "mario"})
	assert.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestUserStoreGetActiveByUsernameNotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewUserStore(db, nil)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost", "active").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "username", "password", "name", "surname", "iban", "status",
		}))

	_, err := s.GetActiveByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStoreGetByIDScansUser(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewUserStore(db, nil)

	rows := sqlmock.NewRows([]string{
		"user_id", "username", "password", "name", "surname", "iban", "status",
	}).AddRow(int64(7), "mario", "hash", "Mario", "Rossi", domain.BuildIBAN(7), "active")
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	user, err := s.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "mario", user.Username)
	assert.Equal(t, domain.BuildIBAN(7), user.IBAN)
	assert.Equal(t, domain.LifecycleActive, user.Status)
}

func TestUserStoreClose(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewUserStore(db, nil)

	mock.ExpectExec("UPDATE users SET status").
		WithArgs(int64(7), "closed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Close(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
