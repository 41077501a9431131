package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

// ListProducts returns the whole catalog. A body that is valid JSON but not a list is an
// empty catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/products", nil, "", nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []domain.Product{}, nil
	}
	var products []domain.Product
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, decodeError("/products", err)
	}
	return products, nil
}

func (c *Client) CreateOrder(ctx context.Context, token string, payload domain.OrderPayload) (domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, token, payload, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// ListOrders filters by status; an empty status lists all orders.
func (c *Client) ListOrders(ctx context.Context, token string, status domain.OrderStatus) ([]domain.Order, error) {
	filter := string(status)
	if filter == "" {
		filter = "all"
	}
	var body struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders", url.Values{"status": {filter}}, token, nil, &body); err != nil {
		return nil, err
	}
	if body.Orders == nil {
		body.Orders = []domain.Order{}
	}
	return body.Orders, nil
}

func (c *Client) OrderStats(ctx context.Context, token string) (domain.OrderStats, error) {
	var stats domain.OrderStats
	err := c.do(ctx, http.MethodGet, "/orders/stats/summary", nil, token, nil, &stats)
	return stats, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) error {
	body := map[string]domain.OrderStatus{"status": status}
	return c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(orderID)+"/status", nil, token, body, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	var s domain.Session
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, "", body, &s)
	return s, err
}

type registerRequest struct {
	Name        string      `json:"name"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Gender      string      `json:"gender"`
	DateOfBirth string      `json:"dateOfBirth"`
	Password    string      `json:"password"`
	Role        domain.Role `json:"role"`
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	body := registerRequest{
		Name:        strings.TrimSpace(reg.FirstName + " " + reg.LastName),
		FirstName:   reg.FirstName,
		LastName:    reg.LastName,
		Username:    reg.Username,
		Email:       reg.Email,
		Phone:       reg.Phone,
		Gender:      reg.Gender,
		DateOfBirth: reg.DateOfBirth,
		Password:    reg.Password,
		Role:        domain.ParseRole(string(reg.Role)),
	}
	var s domain.Session
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, "", body, &s)
	return s, err
}
