package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/order.txt
	orderRaw string

	//go:embed template/product.txt
	productRaw string

	//go:embed template/general.txt
	generalRaw string
)

// PromptSet holds loaded prompt content.
// Router is an FString template with a single {message} placeholder.
type PromptSet struct {
	Router  string
	Order   string
	Product string
	General string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Router:  strings.TrimSpace(routerRaw),
		Order:   strings.TrimSpace(orderRaw),
		Product: strings.TrimSpace(productRaw),
		General: strings.TrimSpace(generalRaw),
	}
}
