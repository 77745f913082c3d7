package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-chat/server/internal/agent/model"
	errx "github.com/serenity-chat/server/internal/core/error"
)

func newRedisRepo(t *testing.T, ttl time.Duration) (*RedisConversationRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisConversationRepository(rdb, ttl), mr
}

func userMessage(text string, sentiment model.Category, strength float64) *schema.Message {
	m := schema.UserMessage(text)
	m.Extra = map[string]any{
		model.ExtraSentiment: string(sentiment),
		model.ExtraStrength:  strength,
	}
	return m
}

// repositoryContract runs the behaviour every ConversationRepository must share.
func repositoryContract(t *testing.T, r model.ConversationRepository) {
	ctx := context.Background()

	empty, err := r.LoadHistory(ctx, "c-1")
	require.NoError(t, err)
	assert.Empty(t, empty.Messages)
	assert.Equal(t, "c-1", empty.ConversationID)

	require.NoError(t, r.AddMessage(ctx, "c-1", userMessage("I am so tired", model.CategoryDepression, 0.2)))
	require.NoError(t, r.AddMessage(ctx, "c-1", schema.AssistantMessage("I hear you.", nil)))
	require.NoError(t, r.AddMessage(ctx, "c-2", schema.UserMessage("hello")))
	require.NoError(t, r.AddMessage(ctx, "c-1", nil))

	n, err := r.GetMessageCount(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	h, err := r.LoadHistory(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, schema.User, h.Messages[0].Role)
	assert.Equal(t, "I am so tired", h.Messages[0].Content)
	assert.Equal(t, "depression", h.Messages[0].Extra[model.ExtraSentiment])
	assert.InDelta(t, 0.2, h.Messages[0].Extra[model.ExtraStrength], 1e-9)
	assert.Equal(t, schema.Assistant, h.Messages[1].Role)

	require.NoError(t, r.ClearHistory(ctx, "c-1"))
	n, err = r.GetMessageCount(ctx, "c-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	other, err := r.GetMessageCount(ctx, "c-2")
	require.NoError(t, err)
	assert.Equal(t, 1, other)
}

func TestMemoryConversationRepository(t *testing.T) {
	repositoryContract(t, NewMemoryConversationRepository())
}

func TestRedisConversationRepository(t *testing.T) {
	r, _ := newRedisRepo(t, 0)
	repositoryContract(t, r)
}

func TestRedisConversationRepositoryExtendsTTL(t *testing.T) {
	r, mr := newRedisRepo(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, r.AddMessage(ctx, "c-ttl", schema.UserMessage("hi")))
	key := r.conversationKey("c-ttl")
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, r.AddMessage(ctx, "c-ttl", schema.UserMessage("still here")))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(2 * time.Hour)
	n, err := r.GetMessageCount(ctx, "c-ttl")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisConversationRepositoryWrapsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	r := NewRedisConversationRepository(rdb, 0)
	mr.Close()

	_, err := r.LoadHistory(context.Background(), "c-down")
	require.Error(t, err)
	assert.Equal(t, errx.RedisErrorMessage, errx.From(err).Message)
}

func TestRedisConversationRepositoryRejectsCorruptRows(t *testing.T) {
	r, mr := newRedisRepo(t, 0)
	_, err := mr.Push(r.conversationKey("c-bad"), "{not json")
	require.NoError(t, err)

	_, err = r.LoadHistory(context.Background(), "c-bad")
	assert.ErrorContains(t, err, "unmarshal message at index 0")
}
