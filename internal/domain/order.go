package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus validates a status received from a caller.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type OrderItem struct {
	ProductID string          `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
}

// OrderPayload is the body of POST /orders.
type OrderPayload struct {
	Customer       Customer        `json:"customer"`
	Items          []OrderItem     `json:"items"`
	ShippingMethod string          `json:"shippingMethod"`
	PaymentMethod  string          `json:"paymentMethod"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Notes          string          `json:"notes"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	OrderDate      time.Time       `json:"orderDate"`
	Status         OrderStatus     `json:"status"`
}

// Order is the record returned by the order service.
type Order struct {
	ID                string          `json:"_id,omitempty"`
	OrderID           string          `json:"orderId"`
	EstimatedDelivery string          `json:"estimatedDelivery,omitempty"`
	Customer          Customer        `json:"customer"`
	Items             []OrderItem     `json:"items"`
	ShippingMethod    string          `json:"shippingMethod,omitempty"`
	PaymentMethod     string          `json:"paymentMethod,omitempty"`
	ShippingCost      decimal.Decimal `json:"shippingCost"`
	TaxAmount         decimal.Decimal `json:"taxAmount"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Status            OrderStatus     `json:"status"`
	OrderDate         time.Time       `json:"orderDate"`
}

// OrderStats is the aggregate returned by GET /orders/stats/summary.
type OrderStats struct {
	TotalOrders     int             `json:"totalOrders"`
	PendingOrders   int             `json:"pendingOrders"`
	DeliveredOrders int             `json:"deliveredOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
}
