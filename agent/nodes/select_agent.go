package orchestratornode

import (
	"fmt"

	"github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
	promptx "github.com/tanpawarit/Chative-Customer-Service/agent/prompt"
	toolx "github.com/tanpawarit/Chative-Customer-Service/agent/tool"
)

// Profile is everything needed to answer one category.
type Profile struct {
	Role         contractx.AgentRole
	Agent        model.ToolCallingChatModel
	Tools        contractx.ToolSet
	SystemPrompt string
}

// Profiles is indexed by Category, so every category has exactly one entry.
type Profiles [contractx.CategoryCount]Profile

func NewProfiles(models contractx.Registry, catalog *toolx.Catalog, prompts promptx.PromptSet) Profiles {
	return Profiles{
		contractx.CategoryOrder: {
			Role:         contractx.AgentRoleOrder,
			Agent:        models.Order(),
			Tools:        catalog.OrderTools(),
			SystemPrompt: prompts.Order,
		},
		contractx.CategoryProduct: {
			Role:         contractx.AgentRoleProduct,
			Agent:        models.Product(),
			Tools:        catalog.ProductTools(),
			SystemPrompt: prompts.Product,
		},
		contractx.CategoryGeneral: {
			Role:         contractx.AgentRoleGeneral,
			Agent:        models.General(),
			Tools:        catalog.AllTools(),
			SystemPrompt: prompts.General,
		},
	}
}

func (p *Profiles) Select(c contractx.Category) Profile {
	if int(c) >= contractx.CategoryCount {
		c = contractx.CategoryGeneral
	}
	return p[c]
}

func SelectAgent(in *GraphState, profiles *Profiles) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Profile = profiles.Select(in.Classification.Category)
	if in.Profile.Agent == nil {
		return nil, fmt.Errorf("%w: no agent for category=%s", contractx.ErrConfiguration, in.Classification.Category)
	}
	return in, nil
}
