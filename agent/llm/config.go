package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
	credentialsx "github.com/tanpawarit/Chative-Customer-Service/pkg/credentials"
	githubmodelsx "github.com/tanpawarit/Chative-Customer-Service/pkg/githubmodels"
)

const (
	ProviderEino   = "eino"
	ProviderOpenAI = "openai"
)

type Config struct {
	Provider           string        `envconfig:"PROVIDER" split_words:"true" default:"eino"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://models.github.ai/inference"`
	APIKey             string        `envconfig:"GITHUB_TOKEN" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-mini"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	MaxToolRounds      int           `envconfig:"MAX_TOOL_ROUNDS" split_words:"true" default:"5"`

	RouterModel       string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	OrderModel        string  `envconfig:"ORDER_MODEL" split_words:"true"`
	ProductModel      string  `envconfig:"PRODUCT_MODEL" split_words:"true"`
	GeneralModel      string  `envconfig:"GENERAL_MODEL" split_words:"true"`
	RouterTemperature float32 `envconfig:"ROUTER_TEMPERATURE" split_words:"true" default:"0.3"`
	AgentTemperature  float32 `envconfig:"AGENT_TEMPERATURE" split_words:"true" default:"0.7"`
}

// ResolveCredentials fills an empty token from the OS keyring.
func (c *Config) ResolveCredentials() {
	c.APIKey = credentialsx.GetOrEnv(credentialsx.KeyGitHubToken, c.APIKey)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: github token is required (set GITHUB_TOKEN or run `config set-token`)", contractx.ErrConfiguration)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrConfiguration)
	}
	switch c.provider() {
	case ProviderEino, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: unsupported provider=%q", contractx.ErrConfiguration, c.Provider)
	}
	if c.MaxToolRounds < 0 {
		return fmt.Errorf("%w: max tool rounds must be >= 0", contractx.ErrConfiguration)
	}
	return nil
}

func (c Config) provider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderEino
	}
	return p
}

func (c Config) UseOpenAISDK() bool {
	return c.provider() == ProviderOpenAI
}

// ModelFor returns the chat model settings for one agent role. Role specific
// model names override the default model.
func (c Config) ModelFor(role contractx.AgentRole) githubmodelsx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.AgentTemperature

	var override string
	switch role {
	case contractx.AgentRoleRouter:
		override = c.RouterModel
		temp = c.RouterTemperature
	case contractx.AgentRoleOrder:
		override = c.OrderModel
	case contractx.AgentRoleProduct:
		override = c.ProductModel
	case contractx.AgentRoleGeneral:
		override = c.GeneralModel
	}
	if v := strings.TrimSpace(override); v != "" {
		modelName = v
	}

	var maxCompletionToken *int
	if c.MaxCompletionToken > 0 {
		n := c.MaxCompletionToken
		maxCompletionToken = &n
	}

	return githubmodelsx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
	}
}
