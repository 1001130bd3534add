package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"bindcast/internal/domain"
)

type fakeChatAdminAPI struct {
	admins []tele.ChatMember
	err    error
}

func (f *fakeChatAdminAPI) AdminsOf(_ *tele.Chat) ([]tele.ChatMember, error) {
	return f.admins, f.err
}

func TestVerifyAdmin(t *testing.T) {
	svc := NewBindingService(&fakeBindStore{})
	api := &fakeChatAdminAPI{admins: []tele.ChatMember{
		{User: &tele.User{ID: 100}},
		{User: &tele.User{ID: 200}},
	}}

	err := svc.VerifyAdmin(context.Background(), api, 200, -100123)
	require.NoError(t, err)
}

func TestVerifyAdminNotAnAdmin(t *testing.T) {
	svc := NewBindingService(&fakeBindStore{})
	api := &fakeChatAdminAPI{admins: []tele.ChatMember{
		{User: &tele.User{ID: 100}},
	}}

	err := svc.VerifyAdmin(context.Background(), api, 999, -100123)
	require.ErrorIs(t, err, domain.ErrNotChannelAdmin)
}

func TestVerifyAdminBotNotInChannel(t *testing.T) {
	svc := NewBindingService(&fakeBindStore{})
	api := &fakeChatAdminAPI{err: &tele.Error{Code: 403, Description: "Forbidden: bot is not a member"}}

	err := svc.VerifyAdmin(context.Background(), api, 100, -100123)
	require.ErrorIs(t, err, domain.ErrBotNotInChannel)
}

func TestVerifyAdminAPIErrorPassthrough(t *testing.T) {
	svc := NewBindingService(&fakeBindStore{})
	apiErr := &tele.Error{Code: 400, Description: "Bad Request: chat not found"}
	api := &fakeChatAdminAPI{err: apiErr}

	err := svc.VerifyAdmin(context.Background(), api, 100, -100123)
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrBotNotInChannel)
	require.NotErrorIs(t, err, domain.ErrNotChannelAdmin)
	var got *tele.Error
	require.ErrorAs(t, err, &got)
	require.Equal(t, 400, got.Code)
}

func TestCreateBindingDuplicatePropagates(t *testing.T) {
	store := &fakeBindStore{createErr: domain.ErrAlreadyExists}
	svc := NewBindingService(store)

	err := svc.CreateBinding(context.Background(), 7, 3)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRemoveBindingScope(t *testing.T) {
	store := &fakeBindStore{}
	svc := NewBindingService(store)

	require.NoError(t, svc.RemoveBinding(context.Background(), 7, 3))
	require.Equal(t, [][2]int64{{7, 3}}, store.deleted)
}

func TestUpdateDescriptionScope(t *testing.T) {
	store := &fakeBindStore{}
	svc := NewBindingService(store)

	require.NoError(t, svc.UpdateDescription(context.Background(), 7, 3, "caption"))
	require.Equal(t, [][2]int64{{7, 3}}, store.updated)
}

func TestIsForbidden(t *testing.T) {
	require.True(t, isForbidden(&tele.Error{Code: 403}))
	require.False(t, isForbidden(&tele.Error{Code: 400}))
	require.False(t, isForbidden(errors.New("plain")))
}
