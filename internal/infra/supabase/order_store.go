package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// OrderStore: orders
// ============================================================

// CreateOrder inserts an order and returns the stored row.
func (c *Client) CreateOrder(ctx context.Context, o *domain.NewOrder) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.number", o.OrderNumber))

	data := map[string]any{
		"user_id":       o.UserID,
		"order_number":  o.OrderNumber,
		"business_name": o.BusinessName,
		"business_type": domain.OptionalString(o.BusinessType),
		"package_id":    domain.OptionalString(o.PackageID),
		"plan_id":       domain.OptionalString(o.PlanID),
		"description":   domain.OptionalString(o.Description),
		"preferences":   domain.OptionalString(o.Preferences),
		"status":        o.Status,
	}

	var order *domain.Order
	err := c.write("supabase/orders", func() error {
		body, err := c.doPost(ctx, "orders", data)
		if err != nil {
			return err
		}
		order, err = decodeFirst[domain.Order](body, "orders")
		if err == nil && order == nil {
			err = fmt.Errorf("orders insert returned no row")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", order.ID))
	return order, nil
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", id))

	var order *domain.Order
	err := c.read(ctx, "supabase/orders", func() error {
		path := fmt.Sprintf("orders?select=*&id=%s&limit=1", eq(id))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		order, err = decodeFirst[domain.Order](body, "orders")
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrdersByUser fetches a user's orders, newest first.
func (c *Client) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListOrdersByUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var orders []domain.Order
	err := c.read(ctx, "supabase/orders", func() error {
		path := fmt.Sprintf("orders?select=*&user_id=%s&order=created_at.desc", eq(userID))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		orders, err = decodeAll[domain.Order](body, "orders")
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListRecentOrders fetches the newest orders across all users.
func (c *Client) ListRecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRecentOrders")
	defer span.End()

	var orders []domain.Order
	err := c.read(ctx, "supabase/orders", func() error {
		path := fmt.Sprintf("orders?select=*&order=created_at.desc&limit=%d", limit)
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		orders, err = decodeAll[domain.Order](body, "orders")
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrderStatuses fetches the status column of every order.
func (c *Client) ListOrderStatuses(ctx context.Context) ([]domain.OrderStatus, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListOrderStatuses")
	defer span.End()

	type row struct {
		Status domain.OrderStatus `json:"status"`
	}

	var statuses []domain.OrderStatus
	err := c.read(ctx, "supabase/orders", func() error {
		body, err := c.doRequest(ctx, http.MethodGet, "orders?select=status")
		if err != nil {
			return err
		}
		rows, err := decodeAll[row](body, "orders")
		if err != nil {
			return err
		}
		statuses = make([]domain.OrderStatus, 0, len(rows))
		for _, r := range rows {
			statuses = append(statuses, r.Status)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statuses, nil
}
