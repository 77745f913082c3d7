package nodes

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/cloudwego/eino/compose"

	"github.com/serenity-chat/server/internal/agent/graph/analyzers"
	"github.com/serenity-chat/server/internal/agent/graph/conversations"
	"github.com/serenity-chat/server/internal/agent/graph/responses"
	"github.com/serenity-chat/server/internal/agent/model"
	errx "github.com/serenity-chat/server/internal/core/error"
	"github.com/serenity-chat/server/internal/metrics"
	logx "github.com/serenity-chat/server/pkg/logger"
)

// NewInputConverterPreHandler creates the pre-handler for InputConverter node
func NewInputConverterPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		s.ConversationID = in.ConversationID
		s.Message = in.Message
		// Reset per-message flags
		s.Analysis = nil
		s.Precomputed = false
		s.CacheExhausted = false
		return in, nil
	}
}

// NewInputConverterNode validates the incoming message before analysis.
func NewInputConverterNode(maxMessageLength int) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (model.QueryInput, error) {
		if input.ConversationID == "" {
			return model.QueryInput{}, errx.Validation("conversation id is required")
		}
		if maxMessageLength > 0 && utf8.RuneCountInString(input.Message) > maxMessageLength {
			return model.QueryInput{}, errx.Validation("message exceeds %d characters", maxMessageLength)
		}
		return input, nil
	})
}

// NewAnalysisSourceCondition routes to the precomputed path when the caller
// already supplied an analysis, otherwise to the keyword analyzer.
func NewAnalysisSourceCondition() func(context.Context, model.QueryInput) (string, error) {
	return func(ctx context.Context, input model.QueryInput) (string, error) {
		if input.Analysis != nil {
			logx.Debug().Str("conversation_id", input.ConversationID).Msg("Routing to PrecomputedAnalysis")
			return NodePrecomputedAnalysis, nil
		}
		return NodeAnalyzer, nil
	}
}

// NewAnalyzerNode classifies the message with the keyword analyzer.
func NewAnalyzerNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (model.Analysis, error) {
		return analyzers.AnalyzeSentiment(input.Message), nil
	})
}

// NewPrecomputedAnalysisNode accepts a caller-supplied analysis, falling back
// to neutral when it is unusable.
func NewPrecomputedAnalysisNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (model.Analysis, error) {
		if input.Analysis == nil {
			return model.FallbackAnalysis(), nil
		}
		return input.Analysis.Normalize(), nil
	})
}

// NewAnalysisPostHandler stores the analysis in state. precomputed marks
// which of the two analysis nodes it is attached to.
func NewAnalysisPostHandler(precomputed bool, mtr *metrics.Metrics) func(context.Context, model.Analysis, *model.AppState) (model.Analysis, error) {
	source := AnalysisSourceClassifier
	if precomputed {
		source = AnalysisSourcePrecomputed
	}
	return func(ctx context.Context, out model.Analysis, state *model.AppState) (model.Analysis, error) {
		a := out
		state.Analysis = &a
		state.Precomputed = precomputed
		mtr.ObserveAnalysisSource(source)

		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Str("source", source).
			Str("sentiment", string(out.Sentiment)).
			Float64("strength", out.Strength).
			Msg("Message analysed")
		return out, nil
	}
}

// NewTurnRecorderNode appends the user turn to the session and persists it.
func NewTurnRecorderNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, analysis model.Analysis) (model.Analysis, error) {
		var conversationID, message string
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			conversationID = state.ConversationID
			message = state.Message
			return nil
		})
		if err != nil {
			return model.Analysis{}, fmt.Errorf("failed to access state: %w", err)
		}

		sess, err := mm.Session(conversationID)
		if err != nil {
			return model.Analysis{}, err
		}
		if _, err := mm.RecordUserTurn(ctx, sess, message, analysis); err != nil {
			return model.Analysis{}, err
		}
		return analysis, nil
	})
}

// NewResponseSelectorNode picks the reply from the session's template cache.
func NewResponseSelectorNode(mm *conversations.MessagesManager, selector *responses.Selector) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, analysis model.Analysis) (*model.Reply, error) {
		var conversationID string
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			conversationID = state.ConversationID
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		sess, err := mm.Session(conversationID)
		if err != nil {
			return nil, err
		}
		sel := mm.ChooseResponse(sess, selector, analysis)

		err = compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			state.CacheExhausted = sel.Repeated
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return responses.Reply(analysis, sel), nil
	})
}

// NewResponseSelectorPostHandler persists the bot reply and records metrics.
func NewResponseSelectorPostHandler(
	mm *conversations.MessagesManager,
	mtr *metrics.Metrics,
) func(context.Context, *model.Reply, *model.AppState) (*model.Reply, error) {
	return func(ctx context.Context, out *model.Reply, state *model.AppState) (*model.Reply, error) {
		if out == nil {
			return out, nil
		}
		intensity := model.IntensityFor(out.Strength)
		mtr.ObserveReply(string(out.Sentiment), string(intensity), state.CacheExhausted)

		if state.CacheExhausted {
			logx.Debug().
				Str("conversation_id", state.ConversationID).
				Str("sentiment", string(out.Sentiment)).
				Str("intensity", string(intensity)).
				Msg("All templates used recently - repeating one")
		}

		sess, err := mm.Session(state.ConversationID)
		if err != nil {
			return nil, err
		}
		// Reply is already cached; a failed write is logged, not returned.
		if err := mm.SaveResponse(ctx, sess, out); err != nil {
			logx.Error().
				Str("conversation_id", state.ConversationID).
				Err(err).
				Msg("Error saving bot reply in ResponseSelector post-handler")
		}
		return out, nil
	}
}
