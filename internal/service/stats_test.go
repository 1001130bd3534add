package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	n   int64
	err error
}

func (f fakeCounter) Count(_ context.Context) (int64, error) {
	return f.n, f.err
}

func TestTotals(t *testing.T) {
	svc := NewStatsService(fakeCounter{n: 3}, fakeCounter{n: 2}, fakeCounter{n: 5})

	users, channels, binds, err := svc.Totals(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), users)
	require.Equal(t, int64(2), channels)
	require.Equal(t, int64(5), binds)
}

func TestTotalsPropagatesError(t *testing.T) {
	countErr := errors.New("count failed")
	svc := NewStatsService(fakeCounter{n: 3}, fakeCounter{err: countErr}, fakeCounter{n: 5})

	_, _, _, err := svc.Totals(context.Background())
	require.ErrorIs(t, err, countErr)
}
