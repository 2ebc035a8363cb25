package orchestrator

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
	llmx "github.com/tanpawarit/Chative-Customer-Service/agent/llm"
	nodex "github.com/tanpawarit/Chative-Customer-Service/agent/nodes"
	promptx "github.com/tanpawarit/Chative-Customer-Service/agent/prompt"
	toolx "github.com/tanpawarit/Chative-Customer-Service/agent/tool"
)

type scriptedModel struct {
	mu sync.Mutex

	replies   []*schema.Message
	chunks    []*schema.Message
	err       error
	streamErr error
	onCall    func()

	calls        int
	bound        int
	seen         [][]*schema.Message
	temperatures []float32
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(input, opts)
	if m.onCall != nil {
		m.onCall()
	}
	if m.err != nil {
		return nil, m.err
	}
	idx := m.calls - 1
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	return m.replies[idx], nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(input, opts)
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	return schema.StreamReaderFromArray(m.chunks), nil
}

func (m *scriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bound = len(tools)
	return m, nil
}

func (m *scriptedModel) record(input []*schema.Message, opts []model.Option) {
	m.calls++
	m.seen = append(m.seen, append([]*schema.Message(nil), input...))
	o := model.GetCommonOptions(&model.Options{}, opts...)
	if o.Temperature != nil {
		m.temperatures = append(m.temperatures, *o.Temperature)
	}
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type fakeRegistry struct {
	router, order, product, general *scriptedModel
}

func (r *fakeRegistry) Router() model.ToolCallingChatModel  { return r.router }
func (r *fakeRegistry) Order() model.ToolCallingChatModel   { return r.order }
func (r *fakeRegistry) Product() model.ToolCallingChatModel { return r.product }
func (r *fakeRegistry) General() model.ToolCallingChatModel { return r.general }

func (r *fakeRegistry) agentCalls() int {
	return r.order.callCount() + r.product.callCount() + r.general.callCount()
}

func text(s string) *schema.Message { return schema.AssistantMessage(s, nil) }

func newFakeRegistry(routerReply string) *fakeRegistry {
	return &fakeRegistry{
		router:  &scriptedModel{replies: []*schema.Message{text(routerReply)}},
		order:   &scriptedModel{replies: []*schema.Message{text("order answer")}},
		product: &scriptedModel{replies: []*schema.Message{text("product answer")}},
		general: &scriptedModel{replies: []*schema.Message{text("general answer")}},
	}
}

func newTestOrchestrator(t *testing.T, reg *fakeRegistry) *Orchestrator {
	t.Helper()

	backend := toolx.NewMockBackend(toolx.WithClock(func() time.Time {
		return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	}))
	o, err := NewFromRegistry(context.Background(), reg, toolx.NewCatalog(backend, backend), llmx.Config{
		MaxToolRounds:     5,
		RouterTemperature: 0.3,
		AgentTemperature:  0.7,
	})
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o
}

func collect(t *testing.T, sr *schema.StreamReader[string]) []string {
	t.Helper()
	defer sr.Close()

	var out []string
	for {
		s, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("recv: %v", err)
		}
		out = append(out, s)
	}
}

func TestProcessRoutesByCategory(t *testing.T) {
	t.Parallel()

	prompts := promptx.LoadPromptSet()
	cases := []struct {
		routerReply string
		want        string
		prompt      string
		tools       int
		pick        func(*fakeRegistry) *scriptedModel
	}{
		{"order", "order answer", prompts.Order, 3, func(r *fakeRegistry) *scriptedModel { return r.order }},
		{" PRODUCT\n", "product answer", prompts.Product, 3, func(r *fakeRegistry) *scriptedModel { return r.product }},
		{"general", "general answer", prompts.General, 6, func(r *fakeRegistry) *scriptedModel { return r.general }},
	}

	for _, tc := range cases {
		reg := newFakeRegistry(tc.routerReply)
		o := newTestOrchestrator(t, reg)

		got, err := o.Process(context.Background(), contractx.Inquiry{Message: "help me", CustomerID: "CUST-001"})
		if err != nil {
			t.Fatalf("router=%q: process: %v", tc.routerReply, err)
		}
		if got != tc.want {
			t.Fatalf("router=%q: reply = %q, want %q", tc.routerReply, got, tc.want)
		}

		agent := tc.pick(reg)
		if agent.callCount() != 1 || reg.agentCalls() != 1 {
			t.Fatalf("router=%q: expected exactly one agent call on the selected agent", tc.routerReply)
		}
		if agent.bound != tc.tools {
			t.Fatalf("router=%q: bound tools = %d, want %d", tc.routerReply, agent.bound, tc.tools)
		}
		msgs := agent.seen[0]
		if len(msgs) != 2 || msgs[0].Content != tc.prompt || msgs[1].Content != "help me" {
			t.Fatalf("router=%q: unexpected conversation %+v", tc.routerReply, msgs)
		}
		if reg.router.temperatures[0] != 0.3 || agent.temperatures[0] != 0.7 {
			t.Fatalf("router=%q: temperatures router=%v agent=%v", tc.routerReply, reg.router.temperatures, agent.temperatures)
		}
	}
}

func TestProcessUnclassifiableGoesToGeneral(t *testing.T) {
	t.Parallel()

	for _, routerReply := range []string{"", "banana", "The category is: order"} {
		reg := newFakeRegistry(routerReply)
		got, err := newTestOrchestrator(t, reg).Process(context.Background(), contractx.Inquiry{Message: "hello"})
		if err != nil {
			t.Fatalf("router=%q: process: %v", routerReply, err)
		}
		if got != "general answer" || reg.general.callCount() != 1 {
			t.Fatalf("router=%q: expected general agent, got %q", routerReply, got)
		}
	}

	reg := newFakeRegistry("order")
	reg.router.err = errors.New("503 from upstream")
	got, err := newTestOrchestrator(t, reg).Process(context.Background(), contractx.Inquiry{Message: "hello"})
	if err != nil {
		t.Fatalf("classifier failure must not surface: %v", err)
	}
	if got != "general answer" {
		t.Fatalf("classifier failure should route to general, got %q", got)
	}
}

func TestProcessEmptyMessageMakesNoRemoteCall(t *testing.T) {
	t.Parallel()

	reg := newFakeRegistry("order")
	o := newTestOrchestrator(t, reg)

	for _, msg := range []string{"", "   ", "\n"} {
		if _, err := o.Process(context.Background(), contractx.Inquiry{Message: msg}); !errors.Is(err, contractx.ErrEmptyMessage) {
			t.Fatalf("Process(%q) err = %v, want ErrEmptyMessage", msg, err)
		}
		if _, err := o.ProcessStream(context.Background(), contractx.Inquiry{Message: msg}); !errors.Is(err, contractx.ErrEmptyMessage) {
			t.Fatalf("ProcessStream(%q) err = %v, want ErrEmptyMessage", msg, err)
		}
	}
	if reg.router.callCount() != 0 || reg.agentCalls() != 0 {
		t.Fatal("no remote call may happen for an empty message")
	}
}

func TestProcessEmptyReplyBecomesApology(t *testing.T) {
	t.Parallel()

	reg := newFakeRegistry("general")
	reg.general.replies = []*schema.Message{text("   ")}

	got, err := newTestOrchestrator(t, reg).Process(context.Background(), contractx.Inquiry{Message: "hi"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got != nodex.FallbackReply {
		t.Fatalf("reply = %q, want apology", got)
	}
}

func TestProcessAgentFailure(t *testing.T) {
	t.Parallel()

	reg := newFakeRegistry("product")
	reg.product.err = errors.New("rate limited")

	if _, err := newTestOrchestrator(t, reg).Process(context.Background(), contractx.Inquiry{Message: "hi"}); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestProcessOrderStatusUsesTool(t *testing.T) {
	t.Parallel()

	idx := 0
	reg := newFakeRegistry("order")
	reg.order.replies = []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{{
			Index:    &idx,
			ID:       "call-1",
			Type:     "function",
			Function: schema.FunctionCall{Name: toolx.ToolGetOrderInfo, Arguments: `{"orderId":"ORD-12345"}`},
		}}),
		text("Order ORD-12345 has shipped via DHL Express."),
	}

	got, err := newTestOrchestrator(t, reg).Process(context.Background(), contractx.Inquiry{Message: "Where is my order ORD-12345?"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(got, "ORD-12345") {
		t.Fatalf("reply = %q", got)
	}
	if reg.order.callCount() != 2 {
		t.Fatalf("order agent calls = %d, want 2", reg.order.callCount())
	}
	toolMsg := reg.order.seen[1][3]
	if toolMsg.Role != schema.Tool || !strings.Contains(toolMsg.Content, "Shipped") {
		t.Fatalf("unexpected tool message %+v", toolMsg)
	}
}

func TestProcessCancelledDuringClassification(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	reg := newFakeRegistry("order")
	reg.router.onCall = cancel

	_, err := newTestOrchestrator(t, reg).Process(ctx, contractx.Inquiry{Message: "Where is my order?"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if reg.agentCalls() != 0 {
		t.Fatal("no response call may be issued after cancellation")
	}
}

func TestProcessStreamFragments(t *testing.T) {
	t.Parallel()

	reg := newFakeRegistry("product")
	reg.product.chunks = []*schema.Message{text(""), text("Wireless "), text(""), text("headphones"), text("")}

	sr, err := newTestOrchestrator(t, reg).ProcessStream(context.Background(), contractx.Inquiry{Message: "Do you have headphones?"})
	if err != nil {
		t.Fatalf("process stream: %v", err)
	}
	got := collect(t, sr)
	if len(got) != 2 || got[0] != "Wireless " || got[1] != "headphones" {
		t.Fatalf("fragments = %q", got)
	}
	if reg.router.callCount() != 1 || reg.product.callCount() != 1 {
		t.Fatal("expected one classification and one response call")
	}
}

func TestProcessStreamOpenFailure(t *testing.T) {
	t.Parallel()

	reg := newFakeRegistry("order")
	reg.order.streamErr = errors.New("401 unauthorized")

	if _, err := newTestOrchestrator(t, reg).ProcessStream(context.Background(), contractx.Inquiry{Message: "hi"}); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestProcessConcurrentRequests(t *testing.T) {
	t.Parallel()

	reg := newFakeRegistry("general")
	o := newTestOrchestrator(t, reg)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := o.Process(context.Background(), contractx.Inquiry{Message: "hello"}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent process: %v", err)
	}
	if reg.general.callCount() != 8 || reg.router.callCount() != 8 {
		t.Fatalf("calls router=%d general=%d, want 8 each", reg.router.callCount(), reg.general.callCount())
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, nil, nodex.Profiles{}, Config{}); err == nil {
		t.Fatal("expected error for missing classifier")
	}
}
