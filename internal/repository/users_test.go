package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"bindcast/internal/domain"
)

func TestUserCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	username := "alice"
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(int64(100), "Alice", nil, "alice").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "account_id", "first_name", "last_name", "username", "created_at", "updated_at"},
		).AddRow(int64(1), int64(100), "Alice", nil, "alice", now, now))

	created, err := repo.Create(context.Background(), domain.User{
		AccountID: 100,
		FirstName: "Alice",
		Username:  &username,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, int64(100), created.AccountID)
	expectationsMet(t, mock)
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), domain.User{AccountID: 100, FirstName: "Alice"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	expectationsMet(t, mock)
}

func TestUserGetByAccountID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE account_id = $1")).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "account_id", "first_name", "last_name", "username", "created_at", "updated_at"},
		).AddRow(int64(1), int64(100), "Alice", nil, nil, now, now))

	u, err := repo.GetByAccountID(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	expectationsMet(t, mock)
}

func TestUserGetByAccountIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE account_id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "account_id", "first_name", "last_name", "username", "created_at", "updated_at"},
		))

	_, err := repo.GetByAccountID(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	expectationsMet(t, mock)
}
