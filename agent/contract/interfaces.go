package contract

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Registry hands out one chat model per agent role.
type Registry interface {
	Router() model.ToolCallingChatModel
	Order() model.ToolCallingChatModel
	Product() model.ToolCallingChatModel
	General() model.ToolCallingChatModel
}

type OrderService interface {
	GetOrderInfo(ctx context.Context, orderID string) (OrderInfo, error)
	TrackShipment(ctx context.Context, trackingNumber string) (ShippingInfo, error)
	RequestRefund(ctx context.Context, orderID string, reason string) (string, error)
}

type ProductService interface {
	SearchProducts(ctx context.Context, keyword string, maxResults int) ([]ProductInfo, error)
	GetProductDetails(ctx context.Context, sku string) (ProductInfo, error)
	GetRecommendations(ctx context.Context, customerID string, count int) ([]ProductInfo, error)
}

// ToolSet is the group of callables offered to an agent for one request.
type ToolSet interface {
	Name() string
	Infos() []*schema.ToolInfo
	Execute(ctx context.Context, name string, arguments string) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, message string) (Classification, error)
}

type Responder interface {
	Respond(ctx context.Context, req AgentRequest) (string, error)
	RespondStream(ctx context.Context, req AgentRequest) (*schema.StreamReader[string], error)
}
