package bot

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "bindcast/core/config"
	"bindcast/core/logger"
	tg "bindcast/core/telegram"
	"bindcast/internal/bot/session"
	"bindcast/internal/domain"
	"bindcast/internal/service"
)

func TestMain(m *testing.M) {
	cfg := &coreconfig.Config{}
	cfg.Logging.Level = "error"
	_ = logger.InitLogger(cfg)
	os.Exit(m.Run())
}

type stubUserStore struct {
	user domain.User
	err  error
}

func (s *stubUserStore) Create(_ context.Context, u domain.User) (domain.User, error) {
	return u, nil
}

func (s *stubUserStore) GetByAccountID(_ context.Context, _ int64) (domain.User, error) {
	return s.user, s.err
}

type stubChannelStore struct {
	channel domain.Channel
	err     error
}

func (s *stubChannelStore) Create(_ context.Context, ch domain.Channel) (domain.Channel, error) {
	return ch, nil
}

func (s *stubChannelStore) GetByExternalID(_ context.Context, _ int64) (domain.Channel, error) {
	return s.channel, s.err
}

type stubBindStore struct {
	createErr error
	created   [][2]int64
}

func (s *stubBindStore) Create(_ context.Context, userID, channelID int64) (domain.Bind, error) {
	if s.createErr != nil {
		return domain.Bind{}, s.createErr
	}
	s.created = append(s.created, [2]int64{userID, channelID})
	return domain.Bind{UserID: userID, ChannelID: channelID}, nil
}

func (s *stubBindStore) UpdateDescription(_ context.Context, _, _ int64, _ string) error {
	return nil
}

func (s *stubBindStore) Delete(_ context.Context, _, _ int64) error { return nil }

func (s *stubBindStore) ListByUser(_ context.Context, _ int64) ([]domain.BindWithChannel, error) {
	return nil, nil
}

type stubAdminAPI struct {
	admins []tele.ChatMember
	err    error
}

func (s *stubAdminAPI) AdminsOf(_ *tele.Chat) ([]tele.ChatMember, error) {
	return s.admins, s.err
}

// recordingContext captures outbound replies; the embedded interface covers
// the methods the handlers never touch.
type recordingContext struct {
	tele.Context
	message *tele.Message
	sender  *tele.User
	chat    *tele.Chat
	store   map[string]interface{}
	sent    []string
	edits   []string
}

func newRecordingContext(userID int64, msg *tele.Message) *recordingContext {
	return &recordingContext{
		message: msg,
		sender:  &tele.User{ID: userID},
		chat:    &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		store:   map[string]interface{}{},
	}
}

func (r *recordingContext) Message() *tele.Message   { return r.message }
func (r *recordingContext) Sender() *tele.User       { return r.sender }
func (r *recordingContext) Chat() *tele.Chat         { return r.chat }
func (r *recordingContext) Update() tele.Update      { return tele.Update{} }
func (r *recordingContext) Callback() *tele.Callback { return nil }

func (r *recordingContext) Text() string {
	if r.message == nil {
		return ""
	}
	return r.message.Text
}

func (r *recordingContext) Get(key string) interface{} { return r.store[key] }

func (r *recordingContext) Set(key string, val interface{}) { r.store[key] = val }

func (r *recordingContext) Send(what interface{}, _ ...interface{}) error {
	r.sent = append(r.sent, fmt.Sprint(what))
	return nil
}

func (r *recordingContext) Edit(what interface{}, _ ...interface{}) error {
	r.edits = append(r.edits, fmt.Sprint(what))
	return nil
}

func (r *recordingContext) EditOrSend(what interface{}, _ ...interface{}) error {
	r.edits = append(r.edits, fmt.Sprint(what))
	return nil
}

func newTestHandlers(users *stubUserStore, channels *stubChannelStore, binds *stubBindStore, admins *stubAdminAPI) *Handlers {
	h := NewHandlers(
		session.NewManager(),
		service.NewUserService(users),
		service.NewChannelService(channels),
		service.NewBindingService(binds),
		service.NewForwarder(users, binds),
		service.NewStatsService(nil, nil, nil),
	)
	if admins != nil {
		h.chatAdmin = func(tele.Context) service.ChatAdminAPI { return admins }
	}
	return h
}

func forwardedPost(title string) *tele.Message {
	return &tele.Message{
		OriginalChat: &tele.Chat{ID: -100123, Title: title, Type: tele.ChatChannel},
		Photo:        &tele.Photo{File: tele.File{FileID: "photo-1"}},
	}
}

// Every binding branch must reply with exactly one status line and land the
// session back in the main menu with fan-out re-enabled.
func TestBindChannelBranches(t *testing.T) {
	const accountID = int64(100)
	knownChannel := domain.Channel{ID: 3, ChannelID: -100123, Title: "Alpha"}
	knownUser := domain.User{ID: 7, AccountID: accountID}
	asAdmin := &stubAdminAPI{admins: []tele.ChatMember{{User: &tele.User{ID: accountID}}}}

	cases := []struct {
		name     string
		message  *tele.Message
		users    *stubUserStore
		channels *stubChannelStore
		binds    *stubBindStore
		admins   *stubAdminAPI
		want     string
	}{
		{
			name:     "not a repost",
			message:  &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "photo-1"}}},
			users:    &stubUserStore{user: knownUser},
			channels: &stubChannelStore{channel: knownChannel},
			binds:    &stubBindStore{},
			admins:   asAdmin,
			want:     textNotRepost,
		},
		{
			name:     "unregistered channel",
			message:  forwardedPost("Alpha"),
			users:    &stubUserStore{user: knownUser},
			channels: &stubChannelStore{err: domain.ErrChannelNotFound},
			binds:    &stubBindStore{},
			admins:   asAdmin,
			want:     "Канал 'Alpha' не найден в БД. Добавьте бота в канал еще раз",
		},
		{
			name:     "unknown user",
			message:  forwardedPost("Alpha"),
			users:    &stubUserStore{err: domain.ErrUserNotFound},
			channels: &stubChannelStore{channel: knownChannel},
			binds:    &stubBindStore{},
			admins:   asAdmin,
			want:     "Канал 'Alpha' не найден в БД. Добавьте бота в канал еще раз",
		},
		{
			name:     "not an admin",
			message:  forwardedPost("Alpha"),
			users:    &stubUserStore{user: knownUser},
			channels: &stubChannelStore{channel: knownChannel},
			binds:    &stubBindStore{},
			admins:   &stubAdminAPI{admins: []tele.ChatMember{{User: &tele.User{ID: 999}}}},
			want:     "Вы не являетесь администратором канала 'Alpha'",
		},
		{
			name:     "bot removed from channel",
			message:  forwardedPost("Alpha"),
			users:    &stubUserStore{user: knownUser},
			channels: &stubChannelStore{channel: knownChannel},
			binds:    &stubBindStore{},
			admins:   &stubAdminAPI{err: &tele.Error{Code: 403, Description: "Forbidden: bot was kicked"}},
			want:     "Бот был удален из канала 'Alpha'",
		},
		{
			name:     "already bound",
			message:  forwardedPost("Alpha"),
			users:    &stubUserStore{user: knownUser},
			channels: &stubChannelStore{channel: knownChannel},
			binds:    &stubBindStore{createErr: domain.ErrAlreadyExists},
			admins:   asAdmin,
			want:     "Канал 'Alpha' уже привязан к вашему аккаунту",
		},
		{
			name:     "success",
			message:  forwardedPost("Alpha"),
			users:    &stubUserStore{user: knownUser},
			channels: &stubChannelStore{channel: knownChannel},
			binds:    &stubBindStore{},
			admins:   asAdmin,
			want:     "Вы привязали канал 'Alpha'",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandlers(tc.users, tc.channels, tc.binds, tc.admins)
			h.sessions.SetState(accountID, session.StateBinding)
			h.sessions.SetForwardSuspended(accountID, true)

			c := newRecordingContext(accountID, tc.message)
			require.NoError(t, h.BindChannel(c))

			require.Equal(t, []string{tc.want}, c.sent)
			require.Equal(t, []string{textMainMenu}, c.edits)
			require.Equal(t, session.StateMainMenu, h.sessions.State(accountID))
			require.False(t, h.sessions.ForwardSuspended(accountID))
		})
	}
}

func TestBindChannelSuccessCreatesOneBind(t *testing.T) {
	binds := &stubBindStore{}
	h := newTestHandlers(
		&stubUserStore{user: domain.User{ID: 7, AccountID: 100}},
		&stubChannelStore{channel: domain.Channel{ID: 3, ChannelID: -100123, Title: "Alpha"}},
		binds,
		&stubAdminAPI{admins: []tele.ChatMember{{User: &tele.User{ID: 100}}}},
	)
	h.sessions.SetState(100, session.StateBinding)

	c := newRecordingContext(100, forwardedPost("Alpha"))
	require.NoError(t, h.BindChannel(c))
	require.Equal(t, [][2]int64{{7, 3}}, binds.created)
}

// A forwarded channel post can be any message kind, not only the media the
// bot re-broadcasts. A voice post arriving in the binding state still has to
// reach the binding handler instead of being dropped.
func TestBindingStateConsumesAnyMessageKind(t *testing.T) {
	h := newTestHandlers(
		&stubUserStore{user: domain.User{ID: 7, AccountID: 100}},
		&stubChannelStore{channel: domain.Channel{ID: 3, ChannelID: -100123, Title: "Alpha"}},
		&stubBindStore{},
		&stubAdminAPI{admins: []tele.ChatMember{{User: &tele.User{ID: 100}}}},
	)
	h.Register(tg.NewRegistry())

	routes := h.FallthroughRoutes()
	require.NotEmpty(t, routes)
	endpoints := make(map[any]struct{}, len(routes))
	for _, route := range routes {
		endpoints[route.Endpoint] = struct{}{}
	}
	require.Contains(t, endpoints, tele.OnMedia)

	h.sessions.SetState(100, session.StateBinding)
	voicePost := &tele.Message{
		OriginalChat: &tele.Chat{ID: -100123, Title: "Alpha", Type: tele.ChatChannel},
		Voice:        &tele.Voice{File: tele.File{FileID: "voice-1"}},
	}
	c := newRecordingContext(100, voicePost)
	require.NoError(t, routes[0].Handler(c))

	require.Equal(t, []string{"Вы привязали канал 'Alpha'"}, c.sent)
	require.Equal(t, []string{textMainMenu}, c.edits)
	require.Equal(t, session.StateMainMenu, h.sessions.State(100))
}

// Outside a conversation the fallthrough routes swallow the update.
func TestFallthroughIgnoredWhenIdle(t *testing.T) {
	h := newTestHandlers(&stubUserStore{}, &stubChannelStore{}, &stubBindStore{}, nil)
	h.Register(tg.NewRegistry())

	c := newRecordingContext(100, &tele.Message{Voice: &tele.Voice{File: tele.File{FileID: "voice-1"}}})
	require.NoError(t, h.FallthroughRoutes()[0].Handler(c))
	require.Empty(t, c.sent)
	require.Empty(t, c.edits)
}
