package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

const FallbackReply = "I apologize, but I couldn't process your request. Please try again."

func agentRequest(in *GraphState, temperature float32) contractx.AgentRequest {
	return contractx.AgentRequest{
		Agent:        in.Profile.Agent,
		Tools:        in.Profile.Tools,
		SystemPrompt: in.Profile.SystemPrompt,
		Message:      in.Message,
		Temperature:  temperature,
	}
}

func GenerateReply(
	ctx context.Context,
	in *GraphState,
	responder contractx.Responder,
	temperature float32,
) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply, err := responder.Respond(ctx, agentRequest(in, temperature))
	if err != nil {
		return "", err
	}
	return FinalizeReply(reply), nil
}

// FinalizeReply substitutes the fixed apology for an empty answer.
func FinalizeReply(reply string) string {
	if strings.TrimSpace(reply) == "" {
		return FallbackReply
	}
	return reply
}

// GenerateReplyStream yields only non-empty fragments, in upstream order.
func GenerateReplyStream(
	ctx context.Context,
	in *GraphState,
	responder contractx.Responder,
	temperature float32,
) (*schema.StreamReader[string], error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sr, err := responder.RespondStream(ctx, agentRequest(in, temperature))
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderWithConvert(sr, func(fragment string) (string, error) {
		if fragment == "" {
			return "", schema.ErrNoValue
		}
		return fragment, nil
	}), nil
}
