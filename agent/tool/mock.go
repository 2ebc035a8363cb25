package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

var (
	_ contractx.OrderService   = (*MockBackend)(nil)
	_ contractx.ProductService = (*MockBackend)(nil)
)

var searchCatalog = []contractx.ProductInfo{
	{
		SKU:         "PROD-001",
		Name:        "Wireless Bluetooth Headphones",
		Description: "Premium noise-canceling headphones with 30-hour battery life",
		Price:       79.99,
		InStock:     true,
		Category:    "Electronics",
		ImageURL:    "https://example.com/headphones.jpg",
		Rating:      4.5,
	},
	{
		SKU:         "PROD-002",
		Name:        "USB-C Fast Charger",
		Description: "65W fast charging adapter with foldable plug",
		Price:       25.00,
		InStock:     true,
		Category:    "Accessories",
		ImageURL:    "https://example.com/charger.jpg",
		Rating:      4.7,
	},
	{
		SKU:         "PROD-003",
		Name:        "Smartphone Case",
		Description: "Durable protective case with kickstand",
		Price:       15.99,
		InStock:     true,
		Category:    "Accessories",
		ImageURL:    "https://example.com/case.jpg",
		Rating:      4.3,
	},
}

var recommendationCatalog = []contractx.ProductInfo{
	{
		SKU:         "PROD-004",
		Name:        "Wireless Mouse",
		Description: "Ergonomic wireless mouse with precision tracking",
		Price:       29.99,
		InStock:     true,
		Category:    "Accessories",
		ImageURL:    "https://example.com/mouse.jpg",
		Rating:      4.6,
	},
	{
		SKU:         "PROD-005",
		Name:        "Laptop Stand",
		Description: "Adjustable aluminum laptop stand for better ergonomics",
		Price:       39.99,
		InStock:     true,
		Category:    "Accessories",
		ImageURL:    "https://example.com/stand.jpg",
		Rating:      4.8,
	},
}

// MockBackend serves canned order, shipment and catalog data.
type MockBackend struct {
	now          func() time.Time
	newReference func() string
}

type MockOption func(*MockBackend)

func WithClock(now func() time.Time) MockOption {
	return func(m *MockBackend) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMockBackend(opts ...MockOption) *MockBackend {
	m := &MockBackend{
		now: time.Now,
		newReference: func() string {
			return strings.ToUpper(uuid.NewString()[:8])
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m *MockBackend) GetOrderInfo(ctx context.Context, orderID string) (contractx.OrderInfo, error) {
	now := m.now().UTC()
	shipping := m.shipment("TRK123456789", now)

	return contractx.OrderInfo{
		OrderID:       orderID,
		CustomerID:    "CUST-12345",
		Status:        "Shipped",
		OrderDate:     now.AddDate(0, 0, -5),
		TotalAmount:   299.99,
		PaymentMethod: "Credit Card",
		CustomerEmail: "customer@example.com",
		Items: []contractx.OrderItem{
			{
				ProductSKU:  "PROD-001",
				ProductName: "Wireless Bluetooth Headphones",
				Quantity:    1,
				UnitPrice:   79.99,
				ImageURL:    "https://example.com/headphones.jpg",
			},
			{
				ProductSKU:  "PROD-002",
				ProductName: "USB-C Fast Charger",
				Quantity:    2,
				UnitPrice:   25.00,
				ImageURL:    "https://example.com/charger.jpg",
			},
		},
		ShippingInfo: &shipping,
	}, nil
}

func (m *MockBackend) TrackShipment(ctx context.Context, trackingNumber string) (contractx.ShippingInfo, error) {
	return m.shipment(trackingNumber, m.now().UTC()), nil
}

func (m *MockBackend) RequestRefund(ctx context.Context, orderID string, reason string) (string, error) {
	return fmt.Sprintf(
		"Refund request submitted successfully for order %s. Reference number: REF-%s. "+
			"Expected processing time: 5-7 business days. You will receive a confirmation email shortly.",
		orderID, m.newReference(),
	), nil
}

func (m *MockBackend) SearchProducts(ctx context.Context, keyword string, maxResults int) ([]contractx.ProductInfo, error) {
	needle := strings.ToLower(keyword)
	out := make([]contractx.ProductInfo, 0, len(searchCatalog))
	for _, p := range searchCatalog {
		if len(out) >= maxResults {
			break
		}
		if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockBackend) GetProductDetails(ctx context.Context, sku string) (contractx.ProductInfo, error) {
	return contractx.ProductInfo{
		SKU:  sku,
		Name: "Wireless Bluetooth Headphones",
		Description: "Premium noise-canceling headphones with 30-hour battery life. " +
			"Features include: Active Noise Cancellation (ANC), Bluetooth 5.0, " +
			"Premium sound quality, Comfortable over-ear design, Foldable for travel",
		Price:       79.99,
		InStock:     true,
		Category:    "Electronics",
		ImageURL:    "https://example.com/headphones.jpg",
		Rating:      4.5,
		ReviewCount: 1234,
		Specifications: map[string]string{
			"Battery Life":  "30 hours",
			"Connectivity":  "Bluetooth 5.0",
			"Weight":        "250g",
			"Color Options": "Black, Silver, Blue",
		},
	}, nil
}

func (m *MockBackend) GetRecommendations(ctx context.Context, customerID string, count int) ([]contractx.ProductInfo, error) {
	if count < 0 {
		count = 0
	}
	if count > len(recommendationCatalog) {
		count = len(recommendationCatalog)
	}
	out := make([]contractx.ProductInfo, count)
	copy(out, recommendationCatalog[:count])
	return out, nil
}

func (m *MockBackend) shipment(trackingNumber string, now time.Time) contractx.ShippingInfo {
	eta := now.AddDate(0, 0, 2)
	return contractx.ShippingInfo{
		TrackingNumber:        trackingNumber,
		Carrier:               "DHL Express",
		Status:                "In Transit",
		EstimatedDeliveryDate: &eta,
		ShippingAddress:       "123 Main St, New York, NY 10001, USA",
		TrackingEvents: []contractx.TrackingEvent{
			{
				Timestamp:   now.AddDate(0, 0, -2),
				Location:    "Shanghai, China",
				Description: "Package departed from origin facility",
			},
			{
				Timestamp:   now.AddDate(0, 0, -1),
				Location:    "Los Angeles, CA, USA",
				Description: "Arrived at customs",
			},
			{
				Timestamp:   now,
				Location:    "New York, NY, USA",
				Description: "Out for delivery",
			},
		},
	}
}
