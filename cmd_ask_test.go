package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

type echoService struct {
	seen []contractx.Inquiry
}

func (e *echoService) Process(ctx context.Context, inq contractx.Inquiry) (string, error) {
	e.seen = append(e.seen, inq)
	return "echo: " + inq.Message, nil
}

func (e *echoService) ProcessStream(ctx context.Context, inq contractx.Inquiry) (*schema.StreamReader[string], error) {
	e.seen = append(e.seen, inq)
	return schema.StreamReaderFromArray([]string{"echo: ", inq.Message}), nil
}

func TestAskOnceStreamsToOutput(t *testing.T) {
	t.Parallel()

	svc := &echoService{}
	var out bytes.Buffer
	if err := askOnce(context.Background(), svc, &out, contractx.Inquiry{Message: "hello", CustomerID: "CUST-001"}); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.String() != "echo: hello\n" {
		t.Fatalf("output = %q", out.String())
	}
	if svc.seen[0].CustomerID != "CUST-001" {
		t.Fatalf("customer id not forwarded: %+v", svc.seen[0])
	}
}

func TestAskInteractiveUntilExit(t *testing.T) {
	t.Parallel()

	svc := &echoService{}
	var out bytes.Buffer
	in := strings.NewReader("where is my order?\n\n  \nrecommend something\nexit\nignored\n")

	if err := askInteractive(context.Background(), svc, in, &out, ""); err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if len(svc.seen) != 2 {
		t.Fatalf("inquiries = %d, want 2", len(svc.seen))
	}
	if !strings.Contains(out.String(), "echo: recommend something") {
		t.Fatalf("output = %q", out.String())
	}
}
