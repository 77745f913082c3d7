package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/serenity-chat/server/internal/agent/graph/conversations"
	"github.com/serenity-chat/server/internal/agent/graph/nodes"
	"github.com/serenity-chat/server/internal/agent/graph/observers"
	"github.com/serenity-chat/server/internal/agent/graph/responses"
	"github.com/serenity-chat/server/internal/agent/model"
	"github.com/serenity-chat/server/internal/metrics"
	logx "github.com/serenity-chat/server/pkg/logger"
)

// Runner executes the compiled graph for one incoming message.
type Runner interface {
	Respond(ctx context.Context, in model.QueryInput) (*model.Reply, error)
}

// Config holds everything needed to compose the response graph.
type Config struct {
	Conversations *conversations.MessagesManager
	Selector      *responses.Selector
	Conversation  model.ConversationConfig
	Metrics       *metrics.Metrics
}

// GraphBuilder handles the construction of the responder graph
type GraphBuilder struct {
	config *Config
	graph  *compose.Graph[model.QueryInput, *model.Reply]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *model.Reply]
	mm       *conversations.MessagesManager
	metrics  *metrics.Metrics
}

// Respond runs one message through the graph while holding the
// conversation's turn lock.
func (r *graphRunner) Respond(ctx context.Context, in model.QueryInput) (*model.Reply, error) {
	_, release, err := r.mm.BeginTurn(in.ConversationID)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	r.metrics.ObserveGraphRun(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("graph returned no reply")
	}
	return out, nil
}

// BuildResponseGraph builds the graph and returns a Runner.
func BuildResponseGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Conversations == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if cfg.Selector == nil {
		cfg.Selector = responses.NewSelector(nil)
	}

	runnable, err := BuildGraph(ctx, &cfg)
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Response graph built successfully")
	return &graphRunner{runnable: runnable, mm: cfg.Conversations, metrics: cfg.Metrics}, nil
}

// BuildGraph constructs and returns the compiled responder graph
func BuildGraph(ctx context.Context, config *Config) (compose.Runnable[model.QueryInput, *model.Reply], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Conversations == nil || config.Selector == nil {
		return nil, fmt.Errorf("graph config is missing conversations or selector")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *model.Reply](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	cfg := b.config
	steps := []struct {
		key string
		add func() error
	}{
		{nodes.NodeInputConverter, func() error {
			return b.graph.AddLambdaNode(nodes.NodeInputConverter,
				nodes.NewInputConverterNode(cfg.Conversation.MaxMessageLength),
				compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
				compose.WithNodeName(nodes.NodeInputConverter),
			)
		}},
		{nodes.NodeAnalyzer, func() error {
			return b.graph.AddLambdaNode(nodes.NodeAnalyzer,
				nodes.NewAnalyzerNode(),
				compose.WithStatePostHandler(nodes.NewAnalysisPostHandler(false, cfg.Metrics)),
				compose.WithNodeName(nodes.NodeAnalyzer),
			)
		}},
		{nodes.NodePrecomputedAnalysis, func() error {
			return b.graph.AddLambdaNode(nodes.NodePrecomputedAnalysis,
				nodes.NewPrecomputedAnalysisNode(),
				compose.WithStatePostHandler(nodes.NewAnalysisPostHandler(true, cfg.Metrics)),
				compose.WithNodeName(nodes.NodePrecomputedAnalysis),
			)
		}},
		{nodes.NodeTurnRecorder, func() error {
			return b.graph.AddLambdaNode(nodes.NodeTurnRecorder,
				nodes.NewTurnRecorderNode(cfg.Conversations),
				compose.WithNodeName(nodes.NodeTurnRecorder),
			)
		}},
		{nodes.NodeResponseSelector, func() error {
			return b.graph.AddLambdaNode(nodes.NodeResponseSelector,
				nodes.NewResponseSelectorNode(cfg.Conversations, cfg.Selector),
				compose.WithStatePostHandler(nodes.NewResponseSelectorPostHandler(cfg.Conversations, cfg.Metrics)),
				compose.WithNodeName(nodes.NodeResponseSelector),
			)
		}},
	}

	for _, step := range steps {
		if err := step.add(); err != nil {
			logx.Error().Err(err).Str("node", step.key).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", step.key, err)
		}
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeAnalyzer, nodes.NodeTurnRecorder},
		{nodes.NodePrecomputedAnalysis, nodes.NodeTurnRecorder},
		{nodes.NodeTurnRecorder, nodes.NodeResponseSelector},
		{nodes.NodeResponseSelector, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	analysisBranch := compose.NewGraphBranch(
		nodes.NewAnalysisSourceCondition(),
		map[string]bool{
			nodes.NodeAnalyzer:            true,
			nodes.NodePrecomputedAnalysis: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeInputConverter, analysisBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding analysis source branch")
		return fmt.Errorf("error adding analysis source branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *model.Reply], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(nodes.DefaultMaxRunSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
