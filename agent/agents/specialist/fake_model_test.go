package specialist

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	mu sync.Mutex

	replies   []*schema.Message
	streams   [][]*schema.Message
	openFn    func(call int) (*schema.StreamReader[*schema.Message], error)
	err       error
	streamErr error

	generateCalls int
	streamCalls   int
	boundTools    []*schema.ToolInfo
	seen          [][]*schema.Message
	temperatures  []float32
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generateCalls++
	f.record(input, opts)
	if f.err != nil {
		return nil, f.err
	}
	idx := f.generateCalls - 1
	if idx >= len(f.replies) {
		return f.replies[len(f.replies)-1], nil
	}
	return f.replies[idx], nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.streamCalls++
	f.record(input, opts)
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	if f.openFn != nil {
		return f.openFn(f.streamCalls)
	}
	idx := f.streamCalls - 1
	if idx >= len(f.streams) {
		idx = len(f.streams) - 1
	}
	return schema.StreamReaderFromArray(f.streams[idx]), nil
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boundTools = tools
	return f, nil
}

func (f *fakeChatModel) record(input []*schema.Message, opts []model.Option) {
	f.seen = append(f.seen, append([]*schema.Message(nil), input...))
	o := model.GetCommonOptions(&model.Options{}, opts...)
	temp := float32(-1)
	if o.Temperature != nil {
		temp = *o.Temperature
	}
	f.temperatures = append(f.temperatures, temp)
}

func (f *fakeChatModel) calls() (generate, stream int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generateCalls, f.streamCalls
}

func toolCall(id, name, args string) schema.ToolCall {
	idx := 0
	return schema.ToolCall{
		Index: &idx,
		ID:    id,
		Type:  "function",
		Function: schema.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func drain(sr *schema.StreamReader[string]) ([]string, error) {
	defer sr.Close()
	var out []string
	for {
		s, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
}
