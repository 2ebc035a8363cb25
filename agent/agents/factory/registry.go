package factory

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
	llmx "github.com/tanpawarit/Chative-Customer-Service/agent/llm"
	githubmodelsx "github.com/tanpawarit/Chative-Customer-Service/pkg/githubmodels"
	openaichatx "github.com/tanpawarit/Chative-Customer-Service/pkg/openaichat"
)

type registryImpl struct {
	router  model.ToolCallingChatModel
	order   model.ToolCallingChatModel
	product model.ToolCallingChatModel
	general model.ToolCallingChatModel
}

func (r *registryImpl) Router() model.ToolCallingChatModel  { return r.router }
func (r *registryImpl) Order() model.ToolCallingChatModel   { return r.order }
func (r *registryImpl) Product() model.ToolCallingChatModel { return r.product }
func (r *registryImpl) General() model.ToolCallingChatModel { return r.general }

type builderFunc func(ctx context.Context, cfg githubmodelsx.Config) (model.ToolCallingChatModel, error)

// NewRegistry creates one chat model per agent role. Models are built once and
// shared by all requests.
func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	build := newEinoModel
	if cfg.UseOpenAISDK() {
		build = newOpenAIModel
	}

	r := &registryImpl{}
	for _, slot := range []struct {
		role contractx.AgentRole
		dst  *model.ToolCallingChatModel
	}{
		{contractx.AgentRoleRouter, &r.router},
		{contractx.AgentRoleOrder, &r.order},
		{contractx.AgentRoleProduct, &r.product},
		{contractx.AgentRoleGeneral, &r.general},
	} {
		m, err := build(ctx, cfg.ModelFor(slot.role))
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrConfiguration, slot.role, err)
		}
		*slot.dst = m
	}
	return r, nil
}

func newEinoModel(ctx context.Context, cfg githubmodelsx.Config) (model.ToolCallingChatModel, error) {
	var builder githubmodelsx.LLMBuilder = &cfg
	return builder.New(ctx)
}

func newOpenAIModel(_ context.Context, cfg githubmodelsx.Config) (model.ToolCallingChatModel, error) {
	return openaichatx.New(cfg)
}

// Unavailable returns a registry whose models fail every call with cause. The
// service keeps serving health checks while misconfigured.
func Unavailable(cause error) contractx.Registry {
	m := unavailableModel{cause: cause}
	return &registryImpl{router: m, order: m, product: m, general: m}
}

type unavailableModel struct {
	cause error
}

func (u unavailableModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return nil, u.cause
}

func (u unavailableModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, u.cause
}

func (u unavailableModel) WithTools([]*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return u, nil
}
