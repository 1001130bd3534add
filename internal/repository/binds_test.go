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

func TestBindCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBindRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO binds")).
		WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "channel_id", "description", "created_at", "updated_at"},
		).AddRow(int64(7), int64(3), nil, now, now))

	bind, err := repo.Create(context.Background(), 7, 3)
	require.NoError(t, err)
	require.Equal(t, int64(7), bind.UserID)
	require.Equal(t, int64(3), bind.ChannelID)
	require.Nil(t, bind.Description)
	expectationsMet(t, mock)
}

func TestBindCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBindRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO binds")).
		WithArgs(int64(7), int64(3)).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), 7, 3)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	expectationsMet(t, mock)
}

// The update must be scoped by both the user and the channel so that editing
// one bind's caption never touches the user's other binds.
func TestBindUpdateDescriptionScopedToChannel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBindRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE user_id = $1 AND channel_id = $2")).
		WithArgs(int64(7), int64(3), "fresh caption").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateDescription(context.Background(), 7, 3, "fresh caption")
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestBindUpdateDescriptionZeroRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBindRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE user_id = $1 AND channel_id = $2")).
		WithArgs(int64(7), int64(99), "caption").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDescription(context.Background(), 7, 99, "caption")
	require.NoError(t, err)
	expectationsMet(t, mock)
}

// Deleting a bind must remove only the (user, channel) pair, never every bind
// of the user.
func TestBindDeleteScopedToChannel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBindRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM binds WHERE user_id = $1 AND channel_id = $2")).
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 7, 3)
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestBindListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBindRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"user_id", "channel_id", "description", "created_at", "updated_at",
		"channel.id", "channel.channel_id", "channel.title", "channel.username",
		"channel.created_at", "channel.updated_at",
	}).
		AddRow(int64(7), int64(3), "daily digest", now, now, int64(3), int64(-100123), "Alpha", nil, now, now).
		AddRow(int64(7), int64(4), nil, now, now, int64(4), int64(-100456), "Beta", nil, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN channels c ON c.id = b.channel_id")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	binds, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, binds, 2)
	require.Equal(t, "Alpha", binds[0].Channel.Title)
	require.Equal(t, int64(-100123), binds[0].Channel.ChannelID)
	require.NotNil(t, binds[0].Description)
	require.Equal(t, "daily digest", *binds[0].Description)
	require.Nil(t, binds[1].Description)
	expectationsMet(t, mock)
}

func TestBindCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBindRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM binds")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	expectationsMet(t, mock)
}
