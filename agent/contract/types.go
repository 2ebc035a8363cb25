package contract

import (
	"time"

	"github.com/cloudwego/eino/components/model"
)

// Inquiry is a single customer message. CustomerID is carried for logging
// only and does not influence routing.
type Inquiry struct {
	Message    string `json:"message"`
	CustomerID string `json:"customerId,omitempty"`
}

type OrderInfo struct {
	OrderID       string        `json:"orderId"`
	CustomerID    string        `json:"customerId"`
	Status        string        `json:"status"`
	OrderDate     time.Time     `json:"orderDate"`
	TotalAmount   float64       `json:"totalAmount"`
	Items         []OrderItem   `json:"items"`
	ShippingInfo  *ShippingInfo `json:"shippingInfo,omitempty"`
	PaymentMethod string        `json:"paymentMethod"`
	CustomerEmail string        `json:"customerEmail"`
	Notes         string        `json:"notes,omitempty"`
}

type OrderItem struct {
	ProductSKU  string  `json:"productSku"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

func (i OrderItem) TotalPrice() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type ShippingInfo struct {
	TrackingNumber        string          `json:"trackingNumber"`
	Carrier               string          `json:"carrier"`
	Status                string          `json:"status"`
	EstimatedDeliveryDate *time.Time      `json:"estimatedDeliveryDate,omitempty"`
	ActualDeliveryDate    *time.Time      `json:"actualDeliveryDate,omitempty"`
	ShippingAddress       string          `json:"shippingAddress"`
	TrackingEvents        []TrackingEvent `json:"trackingEvents"`
}

type TrackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

type ProductInfo struct {
	SKU            string            `json:"productSku"`
	Name           string            `json:"productName"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	InStock        bool              `json:"inStock"`
	Category       string            `json:"category"`
	ImageURL       string            `json:"imageUrl"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

// Classification is the router's verdict. Raw keeps the model output for
// logging; Recognized is false when Category is a fallback.
type Classification struct {
	Category   Category
	Raw        string
	Recognized bool
}

// AgentRequest is one response call: the system prompt and user message form
// the whole conversation, no history is carried between requests.
type AgentRequest struct {
	Agent        model.ToolCallingChatModel
	Tools        ToolSet
	SystemPrompt string
	Message      string
	Temperature  float32
}
