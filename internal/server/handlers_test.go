package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-chat/server/internal/agent/graph"
	"github.com/serenity-chat/server/internal/agent/graph/conversations"
	"github.com/serenity-chat/server/internal/agent/graph/responses"
	"github.com/serenity-chat/server/internal/agent/model"
	"github.com/serenity-chat/server/internal/agent/repo"
	"github.com/serenity-chat/server/internal/encouragement"
	"github.com/serenity-chat/server/internal/metrics"
)

// fixedRand always returns the same draws.
type fixedRand struct {
	idx   int
	float float64
}

func (r fixedRand) IntN(n int) int   { return r.idx % n }
func (r fixedRand) Float64() float64 { return r.float }

type testOptions struct {
	gateDraw float64
	opts     []Option
}

func newTestServer(t *testing.T, to testOptions) *Server {
	t.Helper()
	convCfg := model.ConversationConfig{MaxMessageLength: 50}
	mtr := metrics.New()
	mm := conversations.NewMessagesManager(repo.NewMemoryConversationRepository(), convCfg, conversations.WithMetrics(mtr))
	runner, err := graph.BuildResponseGraph(context.Background(), graph.Config{
		Conversations: mm,
		Selector:      responses.NewSelector(responses.NewRand(5)),
		Conversation:  convCfg,
		Metrics:       mtr,
	})
	require.NoError(t, err)

	enc := encouragement.NewGenerator(
		model.EncouragementConfig{ReplyProbability: 0.7, MinLength: 10},
		fixedRand{float: to.gateDraw},
		mtr,
	)
	cfg := Config{
		Port:             "0",
		AllowOrigins:     []string{"*"},
		MaxMessageLength: convCfg.MaxMessageLength,
		StorageBackend:   "memory",
	}
	return NewServer(cfg, mm, runner, enc, append([]Option{WithMetrics(mtr)}, to.opts...)...)
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func startConversation(t *testing.T, srv *Server) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/conversations", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp startConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ConversationID)
	assert.False(t, resp.CreatedAt.IsZero())
	return resp.ConversationID
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	rec := do(t, srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"storage":"memory"`)
}

func TestHandleHealth_CheckFails(t *testing.T) {
	srv := newTestServer(t, testOptions{opts: []Option{
		WithHealthCheck("redis", func(context.Context) error { return errors.New("connection refused") }),
	}})
	rec := do(t, srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failed_check":"redis"`)
	assert.Contains(t, rec.Body.String(), `"error":"connection refused"`)
}

func TestHandleMetrics(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	startConversation(t, srv)

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "responder_active_conversations 1")
}

func TestSendMessage(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	id := startConversation(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages", `{"text":"I feel anxious and overwhelmed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "anxiety", reply["sentiment"])
	assert.InDelta(t, 0.6, reply["strength"], 1e-9)
	assert.Equal(t, responses.FollowUp(model.CategoryAnxiety, model.IntensityMedium), reply["followUp"])
	assert.Contains(t, reply["response"], reply["followUp"])
}

func TestSendMessage_PrecomputedAnalysis(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	id := startConversation(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages",
		`{"text":"whatever","analysis":{"sentiment":"positive","strength":0.95}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sentiment":"positive"`)
	assert.Contains(t, rec.Body.String(), `"strength":0.95`)
}

func TestSendMessage_EmptyTextIsNeutral(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	id := startConversation(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages", `{"text":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sentiment":"neutral"`)
	assert.Contains(t, rec.Body.String(), `"strength":0.3`)
}

func TestSendMessage_Errors(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	id := startConversation(t, srv)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{"unknown conversation", "/api/conversations/missing/messages", `{"text":"hi"}`, http.StatusNotFound, `{"error":"conversation not found"}`},
		{"bad json", "/api/conversations/" + id + "/messages", `{"text":`, http.StatusBadRequest, `{"error":"invalid request body"}`},
		{"oversize", "/api/conversations/" + id + "/messages", `{"text":"` + strings.Repeat("a", 51) + `"}`, http.StatusBadRequest, `{"error":"message exceeds 50 characters"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestGetConversationTimeline(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	id := startConversation(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/conversations/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"turns":[]`)
	assert.Contains(t, rec.Body.String(), `"messages":[]`)

	do(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages", `{"text":"I am grieving a loss"}`)

	rec = do(t, srv, http.MethodGet, "/api/conversations/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tl timelineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tl))
	assert.Equal(t, id, tl.ConversationID)
	require.Len(t, tl.Turns, 1)
	assert.Equal(t, model.CategoryGrief, tl.Turns[0].Sentiment)
	require.Len(t, tl.Messages, 2)
	assert.Equal(t, "user", string(tl.Messages[0].Role))
	assert.Equal(t, "assistant", string(tl.Messages[1].Role))
	assert.Equal(t, "grief", tl.Messages[1].Sentiment)

	rec = do(t, srv, http.MethodGet, "/api/conversations/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetAndEndConversation(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	id := startConversation(t, srv)
	do(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages", `{"text":"so lonely"}`)

	rec := do(t, srv, http.MethodPost, "/api/conversations/"+id+"/reset", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/conversations/"+id, "")
	assert.Contains(t, rec.Body.String(), `"turns":[]`)
	assert.Contains(t, rec.Body.String(), `"messages":[]`)

	rec = do(t, srv, http.MethodDelete, "/api/conversations/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/conversations/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, srv, http.MethodDelete, "/api/conversations/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEncouragement(t *testing.T) {
	srv := newTestServer(t, testOptions{gateDraw: 0.1})

	rec := do(t, srv, http.MethodPost, "/api/encouragements", `{"text":"work has been so hard lately"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var e encouragement.Encouragement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, encouragement.ToneSupportive, e.Tone)
	assert.Equal(t, encouragement.Templates(encouragement.ToneSupportive)[0], e.Message)

	rec = do(t, srv, http.MethodPost, "/api/encouragements", `{"text":"short"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEncouragement_GateDeclines(t *testing.T) {
	srv := newTestServer(t, testOptions{gateDraw: 0.95})

	rec := do(t, srv, http.MethodPost, "/api/encouragements", `{"text":"work has been so hard lately"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	rec := do(t, srv, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}
