package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"bindcast/internal/domain"
)

type sentMedia struct {
	chat    tele.ChatID
	caption string
}

type fakeMediaSender struct {
	failFor map[tele.ChatID]error
	sent    []sentMedia
}

func (f *fakeMediaSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	chat, ok := to.(tele.ChatID)
	if !ok {
		return nil, &tele.Error{Code: 400, Description: "unexpected recipient"}
	}
	if err, failed := f.failFor[chat]; failed {
		return nil, err
	}
	f.sent = append(f.sent, sentMedia{chat: chat, caption: mediaCaption(what)})
	return &tele.Message{}, nil
}

func mediaCaption(what interface{}) string {
	switch m := what.(type) {
	case *tele.Animation:
		return m.Caption
	case *tele.Photo:
		return m.Caption
	case *tele.Video:
		return m.Caption
	}
	return ""
}

func bindTo(userID, extID int64, title string, description *string) domain.BindWithChannel {
	return domain.BindWithChannel{
		Bind: domain.Bind{UserID: userID, ChannelID: extID, Description: description},
		Channel: domain.Channel{
			ID:        extID,
			ChannelID: extID,
			Title:     title,
		},
	}
}

func TestDispatchUsesBindCaptions(t *testing.T) {
	caption := "evening digest"
	users := &fakeUserStore{user: domain.User{ID: 7, AccountID: 100}}
	binds := &fakeBindStore{binds: []domain.BindWithChannel{
		bindTo(7, -100123, "Alpha", &caption),
		bindTo(7, -100456, "Beta", nil),
	}}
	sender := &fakeMediaSender{}
	fw := NewForwarder(users, binds)

	failures, err := fw.Dispatch(context.Background(), sender, 100, domain.Attachment{
		Kind:   domain.AttachmentPhoto,
		FileID: "file-1",
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, sender.sent, 2)
	require.Equal(t, tele.ChatID(-100123), sender.sent[0].chat)
	require.Equal(t, "evening digest", sender.sent[0].caption)
	require.Equal(t, "", sender.sent[1].caption)
}

func TestDispatchIsolatesFailures(t *testing.T) {
	users := &fakeUserStore{user: domain.User{ID: 7, AccountID: 100}}
	binds := &fakeBindStore{binds: []domain.BindWithChannel{
		bindTo(7, -100123, "Alpha", nil),
		bindTo(7, -100456, "Beta", nil),
		bindTo(7, -100789, "Gamma", nil),
	}}
	sender := &fakeMediaSender{failFor: map[tele.ChatID]error{
		tele.ChatID(-100456): &tele.Error{Code: 403, Description: "Forbidden: bot was kicked"},
	}}
	fw := NewForwarder(users, binds)

	failures, err := fw.Dispatch(context.Background(), sender, 100, domain.Attachment{
		Kind:   domain.AttachmentVideo,
		FileID: "file-2",
	})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	require.Equal(t, "Beta", failures[0].ChannelTitle)
	require.True(t, failures[0].BotRemoved)
	require.Len(t, sender.sent, 2)
}

func TestDispatchInsufficientRightsFailure(t *testing.T) {
	users := &fakeUserStore{user: domain.User{ID: 7, AccountID: 100}}
	binds := &fakeBindStore{binds: []domain.BindWithChannel{
		bindTo(7, -100123, "Alpha", nil),
	}}
	sender := &fakeMediaSender{failFor: map[tele.ChatID]error{
		tele.ChatID(-100123): &tele.Error{Code: 400, Description: "Bad Request: not enough rights"},
	}}
	fw := NewForwarder(users, binds)

	failures, err := fw.Dispatch(context.Background(), sender, 100, domain.Attachment{
		Kind:   domain.AttachmentAnimation,
		FileID: "file-3",
	})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	require.False(t, failures[0].BotRemoved)
}

func TestDispatchUnknownUser(t *testing.T) {
	users := &fakeUserStore{getErr: domain.ErrUserNotFound}
	fw := NewForwarder(users, &fakeBindStore{})

	_, err := fw.Dispatch(context.Background(), &fakeMediaSender{}, 100, domain.Attachment{
		Kind:   domain.AttachmentPhoto,
		FileID: "file-4",
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDispatchRejectsUnknownKind(t *testing.T) {
	users := &fakeUserStore{user: domain.User{ID: 7}}
	fw := NewForwarder(users, &fakeBindStore{})

	_, err := fw.Dispatch(context.Background(), &fakeMediaSender{}, 100, domain.Attachment{
		Kind:   "sticker",
		FileID: "file-5",
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedAttachment)
}
