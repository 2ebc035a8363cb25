package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	factoryx "github.com/tanpawarit/Chative-Customer-Service/agent/agents/factory"
	orchestratorx "github.com/tanpawarit/Chative-Customer-Service/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
	llmx "github.com/tanpawarit/Chative-Customer-Service/agent/llm"
	toolx "github.com/tanpawarit/Chative-Customer-Service/agent/tool"
	configx "github.com/tanpawarit/Chative-Customer-Service/pkg/config"
)

// buildOrchestrator loads LLM settings and wires the inquiry pipeline. With
// degraded set, a configuration problem only logs a warning and every
// inquiry fails until the token is provided.
func buildOrchestrator(ctx context.Context, degraded bool) (*orchestratorx.Orchestrator, error) {
	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, fmt.Errorf("load llm config: %w", err)
	}
	llmCfg.ResolveCredentials()

	registry, err := factoryx.NewRegistry(ctx, *llmCfg)
	if err != nil {
		if !degraded || !errors.Is(err, contractx.ErrConfiguration) {
			return nil, err
		}
		log.Warn().Err(err).Msg("LLM is not configured; inquiries will fail until GITHUB_TOKEN is set")
		registry = factoryx.Unavailable(err)
	}

	backend := toolx.NewMockBackend()
	catalog := toolx.NewCatalog(backend, backend)

	return orchestratorx.NewFromRegistry(ctx, registry, catalog, *llmCfg)
}
