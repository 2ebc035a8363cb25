package specialist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

const (
	DefaultMaxToolRounds = 5

	fragmentBufferSize = 16
)

// Runner drives one agent turn: it sends the conversation with the tool
// descriptors, executes whatever tools the model asks for and resends until
// the model answers in text.
type Runner struct {
	maxToolRounds int
}

func NewRunner(maxToolRounds int) *Runner {
	if maxToolRounds < 0 {
		maxToolRounds = DefaultMaxToolRounds
	}
	return &Runner{maxToolRounds: maxToolRounds}
}

func (r *Runner) Respond(ctx context.Context, req contractx.AgentRequest) (string, error) {
	agent, err := bindTools(req)
	if err != nil {
		return "", err
	}

	msgs := conversation(req)
	opts := []model.Option{model.WithTemperature(req.Temperature)}

	for round := 0; ; round++ {
		resp, err := agent.Generate(ctx, msgs, opts...)
		if err != nil {
			return "", fmt.Errorf("%w: agent generate: %w", contractx.ErrModelInvoke, err)
		}
		if resp == nil {
			return "", nil
		}
		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}
		if round >= r.maxToolRounds {
			return "", r.roundsExceeded()
		}
		msgs = append(msgs, resp)
		msgs = append(msgs, executeToolCalls(ctx, req.Tools, resp.ToolCalls)...)
	}
}

// RespondStream opens the first upstream stream before returning so an early
// failure is reported to the caller directly. Later failures arrive through
// the returned reader.
func (r *Runner) RespondStream(ctx context.Context, req contractx.AgentRequest) (*schema.StreamReader[string], error) {
	agent, err := bindTools(req)
	if err != nil {
		return nil, err
	}

	msgs := conversation(req)
	opts := []model.Option{model.WithTemperature(req.Temperature)}

	upstream, err := agent.Stream(ctx, msgs, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: agent stream: %w", contractx.ErrModelInvoke, err)
	}

	sr, sw := schema.Pipe[string](fragmentBufferSize)
	go r.pump(ctx, agent, req.Tools, msgs, opts, upstream, sw)
	return sr, nil
}

func (r *Runner) pump(
	ctx context.Context,
	agent model.ToolCallingChatModel,
	tools contractx.ToolSet,
	msgs []*schema.Message,
	opts []model.Option,
	upstream *schema.StreamReader[*schema.Message],
	sw *schema.StreamWriter[string],
) {
	defer sw.Close()

	for round := 0; ; round++ {
		merged, closed, err := forwardFragments(upstream, sw)
		if closed {
			return
		}
		if err != nil {
			sw.Send("", err)
			return
		}
		if merged == nil || len(merged.ToolCalls) == 0 {
			return
		}
		if round >= r.maxToolRounds {
			sw.Send("", r.roundsExceeded())
			return
		}

		msgs = append(msgs, merged)
		msgs = append(msgs, executeToolCalls(ctx, tools, merged.ToolCalls)...)

		if err := ctx.Err(); err != nil {
			sw.Send("", err)
			return
		}
		upstream, err = agent.Stream(ctx, msgs, opts...)
		if err != nil {
			sw.Send("", fmt.Errorf("%w: agent stream: %w", contractx.ErrModelInvoke, err))
			return
		}
	}
}

// forwardFragments copies non-empty text chunks to sw and returns the merged
// assistant message. closed reports that the consumer went away.
func forwardFragments(
	upstream *schema.StreamReader[*schema.Message],
	sw *schema.StreamWriter[string],
) (merged *schema.Message, closed bool, err error) {
	defer upstream.Close()

	var chunks []*schema.Message
	for {
		chunk, err := upstream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("%w: agent stream recv: %w", contractx.ErrModelInvoke, err)
		}
		if chunk == nil {
			continue
		}
		chunks = append(chunks, chunk)
		if chunk.Content == "" {
			continue
		}
		if sw.Send(chunk.Content, nil) {
			return nil, true, nil
		}
	}

	if len(chunks) == 0 {
		return nil, false, nil
	}
	merged, err = schema.ConcatMessages(chunks)
	if err != nil {
		return nil, false, fmt.Errorf("%w: merge stream chunks: %w", contractx.ErrModelInvoke, err)
	}
	return merged, false, nil
}

func (r *Runner) roundsExceeded() error {
	return fmt.Errorf("%w: limit=%d", contractx.ErrToolRoundsExceeded, r.maxToolRounds)
}

func bindTools(req contractx.AgentRequest) (model.ToolCallingChatModel, error) {
	if req.Agent == nil {
		return nil, fmt.Errorf("%w: agent model is nil", contractx.ErrConfiguration)
	}
	if req.Tools == nil || len(req.Tools.Infos()) == 0 {
		return req.Agent, nil
	}
	bound, err := req.Agent.WithTools(req.Tools.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools=%s: %w", contractx.ErrModelInvoke, req.Tools.Name(), err)
	}
	return bound, nil
}

func conversation(req contractx.AgentRequest) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(req.SystemPrompt),
		schema.UserMessage(req.Message),
	}
}

// executeToolCalls answers every call in order. A failing tool is reported
// back to the model as an error payload instead of aborting the turn.
func executeToolCalls(ctx context.Context, tools contractx.ToolSet, calls []schema.ToolCall) []*schema.Message {
	out := make([]*schema.Message, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Function.Name)

		var (
			content string
			err     error
		)
		if tools == nil {
			err = fmt.Errorf("%w: tool=%s (no tools bound)", contractx.ErrUnknownTool, name)
		} else {
			content, err = tools.Execute(ctx, name, call.Function.Arguments)
		}
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("tool", name).Str("tool_call_id", call.ID).Msg("tool execution failed")
			content = toolErrorContent(err)
		} else {
			log.Ctx(ctx).Debug().Str("tool", name).Str("tool_call_id", call.ID).Msg("tool executed")
		}
		out = append(out, schema.ToolMessage(content, call.ID))
	}
	return out
}

func toolErrorContent(err error) string {
	b, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return `{"error":"tool failed"}`
	}
	return string(b)
}
