package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	nodex "github.com/tanpawarit/Chative-Customer-Service/agent/nodes"
)

// compileInquiryGraph builds validate_request -> classify_inquiry ->
// select_agent -> generate_reply. generate_reply has both an invoke and a
// stream implementation, so Invoke and Stream on the compiled runnable each
// issue exactly one response call.
func (o *Orchestrator) compileInquiryGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, string], error) {
	graph := compose.NewGraph[nodex.GraphInput, string]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("classify_inquiry",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyInquiry(ctx, in, o.classifier)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_inquiry: %w", err)
	}

	if err := graph.AddLambdaNode("select_agent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SelectAgent(in, &o.profiles)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node select_agent: %w", err)
	}

	generate, err := compose.AnyLambda[*nodex.GraphState, string, any](
		func(ctx context.Context, in *nodex.GraphState, _ ...any) (string, error) {
			return nodex.GenerateReply(ctx, in, o.responder, o.agentTemperature)
		},
		func(ctx context.Context, in *nodex.GraphState, _ ...any) (*schema.StreamReader[string], error) {
			return nodex.GenerateReplyStream(ctx, in, o.responder, o.agentTemperature)
		},
		nil,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("build generate_reply lambda: %w", err)
	}
	if err := graph.AddLambdaNode("generate_reply", generate); err != nil {
		return nil, fmt.Errorf("add node generate_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "classify_inquiry"},
		{"classify_inquiry", "select_agent"},
		{"select_agent", "generate_reply"},
		{"generate_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_inquiry"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
