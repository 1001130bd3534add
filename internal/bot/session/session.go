// Package session holds per-user conversation state for the menu flow.
// It replaces untyped temp-data maps with an explicit session record.
package session

import (
	"sync"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"bindcast/core/logger"
	tghelpers "bindcast/core/telegram/helpers"
)

// State identifies a finite-state-machine step of the menu conversation.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateMainMenu shows the three top-level menu buttons.
	StateMainMenu State = "main_menu"
	// StateUserChannels lists the user's bound channels.
	StateUserChannels State = "user_channels"
	// StateChannelMenu shows actions for one selected channel.
	StateChannelMenu State = "channel_menu"
	// StateBinding waits for a message forwarded from a channel.
	StateBinding State = "binding"
	// StateTypingDescription waits for new caption text.
	StateTypingDescription State = "typing_description"
)

// Session is the conversation record kept per user.
type Session struct {
	State State
	// SelectedChannelID is the Telegram chat id of the channel picked in
	// the channels menu; zero when nothing is selected.
	SelectedChannelID int64
	// SelectedChannelTitle mirrors the picked channel's title for replies.
	SelectedChannelTitle string
	// ForwardSuspended blocks attachment fan-out while the user is
	// mid-binding.
	ForwardSuspended bool
}

// Manager orchestrates user sessions and dispatches messages to the handler
// registered for the user's current state.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	handlers map[State]tele.HandlerFunc
}

// NewManager constructs an in-memory session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		handlers: make(map[State]tele.HandlerFunc),
	}
}

// RegisterHandler associates a state with the handler that consumes the next
// message while the user is in that state.
func (m *Manager) RegisterHandler(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.handlers[st] = h
}

// Get returns a copy of the user's session, or an idle one if none exists.
func (m *Manager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return *sess
	}
	return Session{State: StateIdle}
}

// State returns the user's current conversation state.
func (m *Manager) State(userID int64) State {
	return m.Get(userID).State
}

// SetState moves the user to the given state, creating the session if needed.
func (m *Manager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).State = st
}

// SelectChannel remembers which channel the user picked in the menu.
func (m *Manager) SelectChannel(userID, channelExternalID int64, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.session(userID)
	sess.SelectedChannelID = channelExternalID
	sess.SelectedChannelTitle = title
}

// SetForwardSuspended toggles the fan-out suspension flag.
func (m *Manager) SetForwardSuspended(userID int64, suspended bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).ForwardSuspended = suspended
}

// ForwardSuspended reports whether fan-out is currently blocked for the user.
func (m *Manager) ForwardSuspended(userID int64) bool {
	return m.Get(userID).ForwardSuspended
}

// Reset drops the session entirely; the next /menu starts fresh.
func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// InProgress reports whether the user is inside a message-consuming state.
func (m *Manager) InProgress(userID int64) bool {
	switch m.State(userID) {
	case StateBinding, StateTypingDescription:
		return true
	}
	return false
}

// ManagerHandler executes the handler registered for the user's current
// state, if any.
func (m *Manager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	current := m.State(userID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	if handler, ok := m.handlers[current]; ok {
		return handler(c)
	}
	return nil
}

// session returns the live record for userID, creating it when absent.
// Callers must hold the write lock.
func (m *Manager) session(userID int64) *Session {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle}
		m.sessions[userID] = sess
	}
	return sess
}
