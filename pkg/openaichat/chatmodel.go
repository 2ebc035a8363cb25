// Package openaichat adapts the openai-go SDK to eino's ToolCallingChatModel
// so agents can run on the raw chat completions API.
package openaichat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
	githubmodelsx "github.com/tanpawarit/Chative-Customer-Service/pkg/githubmodels"
)

const streamBufferSize = 16

var _ model.ToolCallingChatModel = (*ChatModel)(nil)

type ChatModel struct {
	client      *openai.Client
	model       string
	temperature *float32
	maxTokens   *int
	tools       []*schema.ToolInfo
}

func New(cfg githubmodelsx.Config) (*ChatModel, error) {
	client := githubmodelsx.NewClient(cfg)
	if client == nil {
		return nil, errors.New("openaichat: api key is required")
	}

	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = githubmodelsx.DefaultModel
	}
	temperature := cfg.Temperature

	return &ChatModel{
		client:      client,
		model:       modelName,
		temperature: &temperature,
		maxTokens:   cfg.MaxCompletionToken,
	}, nil
}

func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	clone := *m
	clone.tools = append([]*schema.ToolInfo(nil), tools...)
	return &clone, nil
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	params, err := m.buildParams(input, opts...)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openaichat: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openaichat: completion has no choices")
	}

	choice := resp.Choices[0]
	msg := fromCompletionMessage(choice.Message)
	msg.ResponseMeta = &schema.ResponseMeta{FinishReason: string(choice.FinishReason)}
	return msg, nil
}

// Stream opens a streaming completion. The first SSE event is read before
// returning so connection and auth failures surface as an error here.
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	params, err := m.buildParams(input, opts...)
	if err != nil {
		return nil, err
	}

	stream := m.client.Chat.Completions.NewStreaming(ctx, params)
	if !stream.Next() {
		err := stream.Err()
		stream.Close()
		if err != nil {
			return nil, fmt.Errorf("openaichat: open stream: %w", err)
		}
		return schema.StreamReaderFromArray([]*schema.Message{}), nil
	}
	first := stream.Current()

	sr, sw := schema.Pipe[*schema.Message](streamBufferSize)
	go func() {
		defer sw.Close()
		defer stream.Close()

		if msg := fromChunk(first); msg != nil {
			if closed := sw.Send(msg, nil); closed {
				return
			}
		}
		for stream.Next() {
			msg := fromChunk(stream.Current())
			if msg == nil {
				continue
			}
			if closed := sw.Send(msg, nil); closed {
				return
			}
		}
		if err := stream.Err(); err != nil {
			sw.Send(nil, fmt.Errorf("openaichat: read stream: %w", err))
		}
	}()

	return sr, nil
}

func (m *ChatModel) buildParams(input []*schema.Message, opts ...model.Option) (openai.ChatCompletionNewParams, error) {
	modelName := m.model
	options := model.GetCommonOptions(&model.Options{
		Model:       &modelName,
		Temperature: m.temperature,
		MaxTokens:   m.maxTokens,
		Tools:       m.tools,
	}, opts...)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		messages = append(messages, toOpenAIMessage(msg))
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(*options.Model),
		Messages: messages,
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(float64(*options.Temperature))
	}
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(*options.MaxTokens))
	}
	if len(options.Tools) > 0 {
		tools, err := toOpenAITools(options.Tools)
		if err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		params.Tools = tools
	}
	return params, nil
}

func toOpenAITools(tools []*schema.ToolInfo) ([]openai.ChatCompletionToolParam, error) {
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, info := range tools {
		if info == nil {
			continue
		}
		params, err := toFunctionParameters(info)
		if err != nil {
			return nil, err
		}
		out = append(out, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        info.Name,
				Description: openai.String(info.Desc),
				Parameters:  params,
			},
		})
	}
	return out, nil
}

func toFunctionParameters(info *schema.ToolInfo) (shared.FunctionParameters, error) {
	if info.ParamsOneOf == nil {
		return shared.FunctionParameters{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}

	s, err := info.ParamsOneOf.ToOpenAPIV3()
	if err != nil {
		return nil, fmt.Errorf("openaichat: convert params for tool=%s: %w", info.Name, err)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("openaichat: marshal params for tool=%s: %w", info.Name, err)
	}
	params := shared.FunctionParameters{}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("openaichat: decode params for tool=%s: %w", info.Name, err)
	}
	return params, nil
}

func toOpenAIMessage(msg *schema.Message) openai.ChatCompletionMessageParamUnion {
	switch msg.Role {
	case schema.System:
		return openai.SystemMessage(msg.Content)
	case schema.User:
		return openai.UserMessage(msg.Content)
	case schema.Tool:
		return openai.ToolMessage(msg.Content, msg.ToolCallID)
	default:
		asst := openai.ChatCompletionAssistantMessageParam{}
		if msg.Content != "" {
			asst.Content.OfString = openai.String(msg.Content)
		}
		if len(msg.ToolCalls) > 0 {
			asst.ToolCalls = make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				asst.ToolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				}
			}
		}
		return openai.ChatCompletionMessageParamUnion{OfAssistant: &asst}
	}
}

func fromCompletionMessage(m openai.ChatCompletionMessage) *schema.Message {
	msg := &schema.Message{
		Role:    schema.Assistant,
		Content: m.Content,
	}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, schema.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return msg
}

// fromChunk returns nil for chunks without choices (usage-only events).
func fromChunk(chunk openai.ChatCompletionChunk) *schema.Message {
	if len(chunk.Choices) == 0 {
		return nil
	}
	choice := chunk.Choices[0]

	msg := &schema.Message{
		Role:    schema.Assistant,
		Content: choice.Delta.Content,
	}
	for _, tc := range choice.Delta.ToolCalls {
		idx := int(tc.Index)
		msg.ToolCalls = append(msg.ToolCalls, schema.ToolCall{
			Index: &idx,
			ID:    tc.ID,
			Type:  string(tc.Type),
			Function: schema.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	if choice.FinishReason != "" {
		msg.ResponseMeta = &schema.ResponseMeta{FinishReason: string(choice.FinishReason)}
	}
	return msg
}
