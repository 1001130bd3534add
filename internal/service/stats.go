package service

import "context"

// Counter reports the number of persisted rows of one entity.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// StatsService aggregates row counts for the admin report.
type StatsService struct {
	users    Counter
	channels Counter
	binds    Counter
}

// NewStatsService builds the service on top of the injected counters.
func NewStatsService(users, channels, binds Counter) *StatsService {
	return &StatsService{users: users, channels: channels, binds: binds}
}

// Totals returns the user, channel, and bind counts.
func (s *StatsService) Totals(ctx context.Context) (users, channels, binds int64, err error) {
	if users, err = s.users.Count(ctx); err != nil {
		return 0, 0, 0, err
	}
	if channels, err = s.channels.Count(ctx); err != nil {
		return 0, 0, 0, err
	}
	if binds, err = s.binds.Count(ctx); err != nil {
		return 0, 0, 0, err
	}
	return users, channels, binds, nil
}
