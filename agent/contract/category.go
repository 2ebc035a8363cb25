package contract

import "strings"

// Category is the closed set of inquiry classes. The zero value is
// CategoryGeneral, so anything that fails to parse lands there.
type Category uint8

const (
	CategoryGeneral Category = iota
	CategoryOrder
	CategoryProduct

	CategoryCount = int(CategoryProduct) + 1
)

var categoryNames = [CategoryCount]string{
	CategoryGeneral: "general",
	CategoryOrder:   "order",
	CategoryProduct: "product",
}

func (c Category) String() string {
	if int(c) >= CategoryCount {
		return categoryNames[CategoryGeneral]
	}
	return categoryNames[c]
}

// ParseCategory maps raw classifier output to a Category.
func ParseCategory(raw string) Category {
	c, _ := LookupCategory(raw)
	return c
}

// LookupCategory is ParseCategory that also reports whether raw named a
// category exactly.
func LookupCategory(raw string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "order":
		return CategoryOrder, true
	case "product":
		return CategoryProduct, true
	case "general":
		return CategoryGeneral, true
	default:
		return CategoryGeneral, false
	}
}

type AgentRole string

const (
	AgentRoleRouter  AgentRole = "router"
	AgentRoleOrder   AgentRole = "order"
	AgentRoleProduct AgentRole = "product"
	AgentRoleGeneral AgentRole = "general"
)
