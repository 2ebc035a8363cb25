package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

const (
	ToolGetOrderInfo       = "GetOrderInfo"
	ToolTrackShipment      = "TrackShipment"
	ToolRequestRefund      = "RequestRefund"
	ToolSearchProducts     = "SearchProducts"
	ToolGetProductDetails  = "GetProductDetails"
	ToolGetRecommendations = "GetRecommendations"

	defaultSearchResults   = 10
	defaultRecommendations = 5
)

// Handler decodes raw JSON arguments and runs the tool.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

type Descriptor struct {
	Name    string
	Desc    string
	Params  map[string]*schema.ParameterInfo
	Handler Handler
}

func (d Descriptor) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        d.Name,
		Desc:        d.Desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(d.Params),
	}
}

// Set is an immutable group of tools offered to one agent.
type Set struct {
	name  string
	tools []Descriptor
	index map[string]Descriptor
	infos []*schema.ToolInfo
}

func NewSet(name string, tools ...Descriptor) *Set {
	s := &Set{
		name:  name,
		tools: tools,
		index: make(map[string]Descriptor, len(tools)),
		infos: make([]*schema.ToolInfo, 0, len(tools)),
	}
	for _, t := range tools {
		s.index[t.Name] = t
		s.infos = append(s.infos, t.Info())
	}
	return s
}

func (s *Set) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Infos returns the descriptors handed to the chat model.
func (s *Set) Infos() []*schema.ToolInfo {
	if s == nil {
		return nil
	}
	return s.infos
}

func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.tools))
	for _, t := range s.tools {
		names = append(names, t.Name)
	}
	return names
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tools)
}

// Execute runs the named tool with JSON arguments and returns the JSON encoded result.
func (s *Set) Execute(ctx context.Context, name string, arguments string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("%w: tool=%s", contractx.ErrUnknownTool, name)
	}
	desc, ok := s.index[strings.TrimSpace(name)]
	if !ok {
		return "", fmt.Errorf("%w: tool=%s is not available in set=%s", contractx.ErrUnknownTool, name, s.name)
	}

	raw := strings.TrimSpace(arguments)
	if raw == "" {
		raw = "{}"
	}

	out, err := desc.Handler(ctx, json.RawMessage(raw))
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal result for tool=%s: %w", name, err)
	}
	return string(encoded), nil
}

// Catalog holds the order, product and combined tool sets. It is built once
// at startup and shared read-only between requests.
type Catalog struct {
	order   *Set
	product *Set
	all     *Set
}

func NewCatalog(orders contractx.OrderService, products contractx.ProductService) *Catalog {
	orderTools := orderDescriptors(orders)
	productTools := productDescriptors(products)

	all := make([]Descriptor, 0, len(orderTools)+len(productTools))
	all = append(all, orderTools...)
	all = append(all, productTools...)

	return &Catalog{
		order:   NewSet("order", orderTools...),
		product: NewSet("product", productTools...),
		all:     NewSet("all", all...),
	}
}

func (c *Catalog) OrderTools() *Set {
	return c.order
}

func (c *Catalog) ProductTools() *Set {
	return c.product
}

func (c *Catalog) AllTools() *Set {
	return c.all
}

func orderDescriptors(svc contractx.OrderService) []Descriptor {
	return []Descriptor{
		{
			Name: ToolGetOrderInfo,
			Desc: "Retrieves order information by order ID",
			Params: map[string]*schema.ParameterInfo{
				"orderId": {Type: schema.String, Desc: "The order ID to retrieve", Required: true},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var in struct {
					OrderID string `json:"orderId"`
				}
				if err := decodeArgs(ToolGetOrderInfo, args, &in); err != nil {
					return nil, err
				}
				if err := requireArg(ToolGetOrderInfo, "orderId", in.OrderID); err != nil {
					return nil, err
				}
				return svc.GetOrderInfo(ctx, strings.TrimSpace(in.OrderID))
			},
		},
		{
			Name: ToolTrackShipment,
			Desc: "Tracks shipment by tracking number",
			Params: map[string]*schema.ParameterInfo{
				"trackingNumber": {Type: schema.String, Desc: "The tracking number", Required: true},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var in struct {
					TrackingNumber string `json:"trackingNumber"`
				}
				if err := decodeArgs(ToolTrackShipment, args, &in); err != nil {
					return nil, err
				}
				if err := requireArg(ToolTrackShipment, "trackingNumber", in.TrackingNumber); err != nil {
					return nil, err
				}
				return svc.TrackShipment(ctx, strings.TrimSpace(in.TrackingNumber))
			},
		},
		{
			Name: ToolRequestRefund,
			Desc: "Initiates a refund request for an order",
			Params: map[string]*schema.ParameterInfo{
				"orderId": {Type: schema.String, Desc: "The order ID", Required: true},
				"reason":  {Type: schema.String, Desc: "Reason for refund", Required: true},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var in struct {
					OrderID string `json:"orderId"`
					Reason  string `json:"reason"`
				}
				if err := decodeArgs(ToolRequestRefund, args, &in); err != nil {
					return nil, err
				}
				if err := requireArg(ToolRequestRefund, "orderId", in.OrderID); err != nil {
					return nil, err
				}
				return svc.RequestRefund(ctx, strings.TrimSpace(in.OrderID), strings.TrimSpace(in.Reason))
			},
		},
	}
}

func productDescriptors(svc contractx.ProductService) []Descriptor {
	return []Descriptor{
		{
			Name: ToolSearchProducts,
			Desc: "Searches for products by keyword",
			Params: map[string]*schema.ParameterInfo{
				"keyword":    {Type: schema.String, Desc: "Search keyword", Required: true},
				"maxResults": {Type: schema.Integer, Desc: "Maximum number of results (default: 10)"},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var in struct {
					Keyword    string `json:"keyword"`
					MaxResults int    `json:"maxResults"`
				}
				if err := decodeArgs(ToolSearchProducts, args, &in); err != nil {
					return nil, err
				}
				if in.MaxResults <= 0 {
					in.MaxResults = defaultSearchResults
				}
				return svc.SearchProducts(ctx, in.Keyword, in.MaxResults)
			},
		},
		{
			Name: ToolGetProductDetails,
			Desc: "Gets detailed information about a specific product",
			Params: map[string]*schema.ParameterInfo{
				"productSku": {Type: schema.String, Desc: "Product SKU", Required: true},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var in struct {
					ProductSKU string `json:"productSku"`
				}
				if err := decodeArgs(ToolGetProductDetails, args, &in); err != nil {
					return nil, err
				}
				if err := requireArg(ToolGetProductDetails, "productSku", in.ProductSKU); err != nil {
					return nil, err
				}
				return svc.GetProductDetails(ctx, strings.TrimSpace(in.ProductSKU))
			},
		},
		{
			Name: ToolGetRecommendations,
			Desc: "Gets personalized product recommendations for a customer",
			Params: map[string]*schema.ParameterInfo{
				"customerId": {Type: schema.String, Desc: "Customer ID", Required: true},
				"count":      {Type: schema.Integer, Desc: "Number of recommendations (default: 5)"},
			},
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var in struct {
					CustomerID string `json:"customerId"`
					Count      int    `json:"count"`
				}
				if err := decodeArgs(ToolGetRecommendations, args, &in); err != nil {
					return nil, err
				}
				if in.Count <= 0 {
					in.Count = defaultRecommendations
				}
				return svc.GetRecommendations(ctx, strings.TrimSpace(in.CustomerID), in.Count)
			},
		},
	}
}

func decodeArgs(tool string, args json.RawMessage, dst any) error {
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("%w: invalid arguments for tool=%s: %v", contractx.ErrValidation, tool, err)
	}
	return nil
}

func requireArg(tool, name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: tool=%s requires %s", contractx.ErrValidation, tool, name)
	}
	return nil
}
