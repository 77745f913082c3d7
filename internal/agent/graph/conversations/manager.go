package conversations

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/serenity-chat/server/internal/agent/graph/responses"
	"github.com/serenity-chat/server/internal/agent/model"
	errx "github.com/serenity-chat/server/internal/core/error"
	"github.com/serenity-chat/server/internal/metrics"
	logx "github.com/serenity-chat/server/pkg/logger"
)

// ErrConversationNotFound is returned for ids with no live session.
var ErrConversationNotFound = errx.NotFound("conversation not found")

// Session is one live conversation. It owns the turn log and the response
// cache; both live exactly as long as the session.
type Session struct {
	ID        string
	CreatedAt time.Time

	// turnMu is held for a whole message run so turns of one conversation never interleave.
	turnMu sync.Mutex

	mu    sync.RWMutex
	turns []model.Turn
	cache *responses.Cache
	ended bool
}

// Turns returns a copy of the turn log, oldest first.
func (s *Session) Turns() []model.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.turns)
}

// CachedReplies returns the replies currently remembered for key.
func (s *Session) CachedReplies(key responses.CacheKey) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.Recent(key)
}

type Option func(*MessagesManager)

func WithClock(clock clockwork.Clock) Option {
	return func(m *MessagesManager) { m.clock = clock }
}

func WithMetrics(mtr *metrics.Metrics) Option {
	return func(m *MessagesManager) { m.metrics = mtr }
}

// MessagesManager is the session registry. It keeps per-conversation state in
// memory and mirrors every message into the conversation repository.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
	clock            clockwork.Clock
	metrics          *metrics.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig, opts ...Option) *MessagesManager {
	m := &MessagesManager{
		conversationRepo: conversationRepo,
		maxTurns:         max(config.MaxTurns, 0),
		clock:            clockwork.NewRealClock(),
		sessions:         make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartConversation opens a new session with a random id.
func (cm *MessagesManager) StartConversation(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: cm.clock.Now().UTC(),
		cache:     responses.NewCache(),
	}

	cm.mu.Lock()
	cm.sessions[sess.ID] = sess
	active := len(cm.sessions)
	cm.mu.Unlock()

	cm.metrics.SetActiveConversations(active)
	logx.Debug().Str("conversation_id", sess.ID).Msg("conversation started")
	return sess, nil
}

// Session looks up a live session.
func (cm *MessagesManager) Session(conversationID string) (*Session, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	sess, ok := cm.sessions[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return sess, nil
}

// BeginTurn locks the conversation for one message run. The returned func
// releases it and must be called exactly once.
func (cm *MessagesManager) BeginTurn(conversationID string) (*Session, func(), error) {
	sess, err := cm.Session(conversationID)
	if err != nil {
		return nil, nil, err
	}
	sess.turnMu.Lock()

	sess.mu.RLock()
	ended := sess.ended
	sess.mu.RUnlock()
	if ended {
		sess.turnMu.Unlock()
		return nil, nil, ErrConversationNotFound
	}
	return sess, sess.turnMu.Unlock, nil
}

// RecordUserTurn appends the analysed message to the turn log and persists it.
func (cm *MessagesManager) RecordUserTurn(ctx context.Context, sess *Session, message string, analysis model.Analysis) (model.Turn, error) {
	turn := model.Turn{
		Message:   message,
		Sentiment: analysis.Sentiment,
		Strength:  analysis.Strength,
		Timestamp: cm.clock.Now().UTC(),
	}

	sess.mu.Lock()
	sess.turns = append(sess.turns, turn)
	if cm.maxTurns > 0 && len(sess.turns) > cm.maxTurns {
		sess.turns = slices.Clone(sess.turns[len(sess.turns)-cm.maxTurns:])
	}
	sess.mu.Unlock()

	userMsg := schema.UserMessage(message)
	userMsg.Extra = messageExtra(analysis, turn.Timestamp)
	if err := cm.conversationRepo.AddMessage(ctx, sess.ID, userMsg); err != nil {
		return turn, fmt.Errorf("save user message: %w", err)
	}
	return turn, nil
}

// ChooseResponse picks a reply using the session's cache.
func (cm *MessagesManager) ChooseResponse(sess *Session, selector *responses.Selector, analysis model.Analysis) responses.Selection {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return selector.Select(sess.cache, analysis)
}

// SaveResponse persists the bot reply to the conversation timeline.
func (cm *MessagesManager) SaveResponse(ctx context.Context, sess *Session, reply *model.Reply) error {
	if reply == nil {
		return nil
	}
	assistantMsg := schema.AssistantMessage(reply.Response, nil)
	assistantMsg.Extra = messageExtra(model.Analysis{Sentiment: reply.Sentiment, Strength: reply.Strength}, cm.clock.Now().UTC())
	if err := cm.conversationRepo.AddMessage(ctx, sess.ID, assistantMsg); err != nil {
		return fmt.Errorf("save assistant message: %w", err)
	}
	return nil
}

// Timeline returns the turn log together with the persisted messages.
func (cm *MessagesManager) Timeline(ctx context.Context, conversationID string) (*model.Timeline, error) {
	sess, err := cm.Session(conversationID)
	if err != nil {
		return nil, err
	}
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return &model.Timeline{
		ConversationID: sess.ID,
		CreatedAt:      sess.CreatedAt,
		Turns:          sess.Turns(),
		Messages:       history.Messages,
	}, nil
}

// Reset clears the turn log, the response cache and the persisted timeline.
// The session itself stays open.
func (cm *MessagesManager) Reset(ctx context.Context, conversationID string) error {
	sess, release, err := cm.BeginTurn(conversationID)
	if err != nil {
		return err
	}
	defer release()

	sess.mu.Lock()
	sess.turns = nil
	sess.cache.Reset()
	sess.mu.Unlock()

	if err := cm.conversationRepo.ClearHistory(ctx, conversationID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	cm.metrics.IncConversationResets()
	logx.Debug().Str("conversation_id", conversationID).Msg("conversation reset")
	return nil
}

// End discards the session and its persisted timeline.
func (cm *MessagesManager) End(ctx context.Context, conversationID string) error {
	sess, release, err := cm.BeginTurn(conversationID)
	if err != nil {
		return err
	}
	defer release()

	sess.mu.Lock()
	sess.ended = true
	sess.turns = nil
	sess.cache.Reset()
	sess.mu.Unlock()

	cm.mu.Lock()
	delete(cm.sessions, conversationID)
	active := len(cm.sessions)
	cm.mu.Unlock()
	cm.metrics.SetActiveConversations(active)

	if err := cm.conversationRepo.ClearHistory(ctx, conversationID); err != nil {
		logx.Warn().Err(err).Str("conversation_id", conversationID).Msg("failed to clear history of ended conversation")
	}
	logx.Debug().Str("conversation_id", conversationID).Msg("conversation ended")
	return nil
}

// ActiveCount returns the number of live sessions.
func (cm *MessagesManager) ActiveCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.sessions)
}

func messageExtra(analysis model.Analysis, at time.Time) map[string]any {
	return map[string]any{
		model.ExtraSentiment: string(analysis.Sentiment),
		model.ExtraStrength:  analysis.Strength,
		model.ExtraCreatedAt: at.Format(time.RFC3339Nano),
	}
}
