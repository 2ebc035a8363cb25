package specialist

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

// Classifier asks the router model for a single category word.
type Classifier struct {
	runner      compose.Runnable[map[string]any, contractx.Classification]
	temperature float32
}

func NewClassifier(
	ctx context.Context,
	router model.ToolCallingChatModel,
	routerTemplate string,
	temperature float32,
) (*Classifier, error) {
	if router == nil {
		return nil, fmt.Errorf("%w: router model is required", contractx.ErrConfiguration)
	}
	runner, err := compileClassifierGraph(ctx, router, routerTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &Classifier{runner: runner, temperature: temperature}, nil
}

// Classify returns the raw verdict. Callers decide how to fall back; an
// unrecognized answer is not an error.
func (c *Classifier) Classify(ctx context.Context, message string) (contractx.Classification, error) {
	out, err := c.runner.Invoke(ctx,
		map[string]any{"message": message},
		compose.WithChatModelOption(model.WithTemperature(c.temperature)),
	)
	if err != nil {
		return contractx.Classification{Category: contractx.CategoryGeneral},
			fmt.Errorf("%w: classify inquiry: %w", contractx.ErrModelInvoke, err)
	}
	return out, nil
}
