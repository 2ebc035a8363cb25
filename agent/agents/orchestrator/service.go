package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	specialistx "github.com/tanpawarit/Chative-Customer-Service/agent/agents/specialist"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
	llmx "github.com/tanpawarit/Chative-Customer-Service/agent/llm"
	nodex "github.com/tanpawarit/Chative-Customer-Service/agent/nodes"
	promptx "github.com/tanpawarit/Chative-Customer-Service/agent/prompt"
	toolx "github.com/tanpawarit/Chative-Customer-Service/agent/tool"
)

const DefaultAgentTemperature float32 = 0.7

type Config struct {
	AgentTemperature float32
}

type Option func(*Orchestrator)

// WithClock overrides the time source used to stamp requests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Orchestrator classifies an inquiry and answers it with the matching agent.
// It is safe for concurrent use; no state is kept between requests.
type Orchestrator struct {
	classifier contractx.Classifier
	responder  contractx.Responder
	profiles   nodex.Profiles

	graphRunner compose.Runnable[nodex.GraphInput, string]

	agentTemperature float32
	now              func() time.Time
}

func New(
	classifier contractx.Classifier,
	responder contractx.Responder,
	profiles nodex.Profiles,
	cfg Config,
	opts ...Option,
) (*Orchestrator, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if responder == nil {
		return nil, errors.New("responder is required")
	}

	temp := cfg.AgentTemperature
	if temp <= 0 {
		temp = DefaultAgentTemperature
	}

	o := &Orchestrator{
		classifier:       classifier,
		responder:        responder,
		profiles:         profiles,
		agentTemperature: temp,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	graphRunner, err := o.compileInquiryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// NewFromRegistry wires the classifier, the tool-calling runner and the
// per-category profiles from one model registry.
func NewFromRegistry(
	ctx context.Context,
	models contractx.Registry,
	catalog *toolx.Catalog,
	cfg llmx.Config,
	opts ...Option,
) (*Orchestrator, error) {
	prompts := promptx.LoadPromptSet()

	classifier, err := specialistx.NewClassifier(ctx, models.Router(), prompts.Router, cfg.RouterTemperature)
	if err != nil {
		return nil, err
	}

	return New(
		classifier,
		specialistx.NewRunner(cfg.MaxToolRounds),
		nodex.NewProfiles(models, catalog, prompts),
		Config{AgentTemperature: cfg.AgentTemperature},
		opts...,
	)
}

// Process answers one inquiry in a single shot.
func (o *Orchestrator) Process(ctx context.Context, inq contractx.Inquiry) (string, error) {
	ctx = withInquiryLogger(ctx, inq)

	reply, err := o.graphRunner.Invoke(ctx, graphInput(inq))
	if err != nil {
		return "", err
	}
	return reply, nil
}

// ProcessStream answers one inquiry as an ordered sequence of non-empty text
// fragments. Closing the returned reader stops production.
func (o *Orchestrator) ProcessStream(ctx context.Context, inq contractx.Inquiry) (*schema.StreamReader[string], error) {
	ctx = withInquiryLogger(ctx, inq)

	sr, err := o.graphRunner.Stream(ctx, graphInput(inq))
	if err != nil {
		return nil, err
	}
	return sr, nil
}

func graphInput(inq contractx.Inquiry) nodex.GraphInput {
	return nodex.GraphInput{
		Message:    inq.Message,
		CustomerID: inq.CustomerID,
	}
}

func withInquiryLogger(ctx context.Context, inq contractx.Inquiry) context.Context {
	customerID := strings.TrimSpace(inq.CustomerID)
	if customerID == "" {
		customerID = "anonymous"
	}
	logger := log.Ctx(ctx).With().Str("customer_id", customerID).Logger()
	return logger.WithContext(ctx)
}
