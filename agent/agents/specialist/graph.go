package specialist

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

// compileClassifierGraph wires prompt -> model -> parse_category. The router
// template is rendered as a single user turn with the inquiry substituted for
// {message}.
func compileClassifierGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	routerTemplate string,
) (compose.Runnable[map[string]any, contractx.Classification], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(routerTemplate),
	)

	graph := compose.NewGraph[map[string]any, contractx.Classification]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add classifier prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add classifier model node: %w", err)
	}
	if err := graph.AddLambdaNode("parse_category", compose.InvokableLambda(parseClassification)); err != nil {
		return nil, fmt.Errorf("add classifier parser node: %w", err)
	}

	edges := [][2]string{
		{compose.START, "prompt"},
		{"prompt", "model"},
		{"model", "parse_category"},
		{"parse_category", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add classifier edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("specialist.classifier_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile classifier graph: %w", err)
	}
	return runner, nil
}

func parseClassification(_ context.Context, msg *schema.Message) (contractx.Classification, error) {
	if msg == nil {
		return contractx.Classification{Category: contractx.CategoryGeneral}, nil
	}
	category, ok := contractx.LookupCategory(msg.Content)
	return contractx.Classification{
		Category:   category,
		Raw:        msg.Content,
		Recognized: ok,
	}, nil
}
