package domain

import "time"

// User mirrors a Telegram account that started the bot.
type User struct {
	ID        int64     `db:"id"`
	AccountID int64     `db:"account_id"`
	FirstName string    `db:"first_name"`
	LastName  *string   `db:"last_name"`
	Username  *string   `db:"username"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Channel is a broadcast destination the bot was added to.
type Channel struct {
	ID        int64     `db:"id"`
	ChannelID int64     `db:"channel_id"`
	Title     string    `db:"title"`
	Username  *string   `db:"username"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Bind links one user to one channel and carries the caption used for
// re-posted attachments. At most one bind exists per (user, channel) pair.
type Bind struct {
	UserID      int64     `db:"user_id"`
	ChannelID   int64     `db:"channel_id"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// BindWithChannel is a bind joined with its destination channel, as needed
// by the channels menu and the fan-out loop.
type BindWithChannel struct {
	Bind
	Channel Channel `db:"channel"`
}
