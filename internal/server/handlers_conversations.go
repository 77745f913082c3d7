package server

import (
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"
	"github.com/labstack/echo/v4"

	"github.com/serenity-chat/server/internal/agent/model"
	errx "github.com/serenity-chat/server/internal/core/error"
)

type startConversationResponse struct {
	ConversationID string    `json:"conversation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	Text     string          `json:"text"`
	Analysis *model.Analysis `json:"analysis,omitempty"`
}

type timelineMessage struct {
	Role      schema.RoleType `json:"role"`
	Content   string          `json:"content"`
	Sentiment any             `json:"sentiment,omitempty"`
	Strength  any             `json:"strength,omitempty"`
	CreatedAt any             `json:"created_at,omitempty"`
}

type timelineResponse struct {
	ConversationID string            `json:"conversation_id"`
	CreatedAt      time.Time         `json:"created_at"`
	Turns          []model.Turn      `json:"turns"`
	Messages       []timelineMessage `json:"messages"`
}

func (s *Server) handleStartConversation(c echo.Context) error {
	sess, err := s.conversations.StartConversation(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, startConversationResponse{
		ConversationID: sess.ID,
		CreatedAt:      sess.CreatedAt,
	})
}

func (s *Server) handleGetConversation(c echo.Context) error {
	tl, err := s.conversations.Timeline(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	resp := timelineResponse{
		ConversationID: tl.ConversationID,
		CreatedAt:      tl.CreatedAt,
		Turns:          tl.Turns,
		Messages:       make([]timelineMessage, 0, len(tl.Messages)),
	}
	if resp.Turns == nil {
		resp.Turns = []model.Turn{}
	}
	for _, m := range tl.Messages {
		if m == nil {
			continue
		}
		resp.Messages = append(resp.Messages, timelineMessage{
			Role:      m.Role,
			Content:   m.Content,
			Sentiment: m.Extra[model.ExtraSentiment],
			Strength:  m.Extra[model.ExtraStrength],
			CreatedAt: m.Extra[model.ExtraCreatedAt],
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return errx.Validation("invalid request body")
	}
	if limit := s.config.MaxMessageLength; limit > 0 && utf8.RuneCountInString(req.Text) > limit {
		return errx.Validation("message exceeds %d characters", limit)
	}

	reply, err := s.runner.Respond(c.Request().Context(), model.QueryInput{
		ConversationID: c.Param("id"),
		Message:        req.Text,
		Analysis:       req.Analysis,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reply)
}

func (s *Server) handleResetConversation(c echo.Context) error {
	if err := s.conversations.Reset(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleEndConversation(c echo.Context) error {
	if err := s.conversations.End(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
