package domain

import "errors"

var (
	// ErrUserNotFound indicates the account has no local user row.
	ErrUserNotFound = errors.New("user not found")
	// ErrChannelNotFound indicates the channel was never registered locally.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrAlreadyExists indicates a unique key collision on create.
	ErrAlreadyExists = errors.New("object already exists")
	// ErrNotChannelAdmin indicates the account is absent from the channel's
	// administrator list.
	ErrNotChannelAdmin = errors.New("user is not a channel administrator")
	// ErrBotNotInChannel indicates the bot itself was removed from the channel.
	ErrBotNotInChannel = errors.New("bot was removed from the channel")
	// ErrUnsupportedAttachment indicates the message carries no animation,
	// photo, or video.
	ErrUnsupportedAttachment = errors.New("unsupported attachment type")
)
