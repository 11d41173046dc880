package supabase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// ContractStore: contracts (insert-only)
// ============================================================

// CreateContract inserts a contract for an already stored order.
func (c *Client) CreateContract(ctx context.Context, nc *domain.NewContract) (*domain.Contract, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateContract")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", nc.OrderID),
		attribute.String("contract.number", nc.ContractNumber),
	)

	data := map[string]any{
		"order_id":            nc.OrderID,
		"user_id":             nc.UserID,
		"contract_number":     nc.ContractNumber,
		"client_name":         nc.ClientName,
		"client_email":        nc.ClientEmail,
		"client_phone":        domain.OptionalString(nc.ClientPhone),
		"service_description": nc.ServiceDescription,
		"total_value":         nc.TotalValue,
		"terms_accepted":      true,
		"digital_signature":   domain.OptionalString(nc.DigitalSignature),
		"signed_at":           nc.SignedAt.UTC().Format(time.RFC3339),
	}

	var contract *domain.Contract
	err := c.write("supabase/contracts", func() error {
		body, err := c.doPost(ctx, "contracts", data)
		if err != nil {
			return err
		}
		contract, err = decodeFirst[domain.Contract](body, "contracts")
		if err == nil && contract == nil {
			err = fmt.Errorf("contracts insert returned no row")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// FindContract fetches a contract by its id, or else by its order id.
func (c *Client) FindContract(ctx context.Context, q domain.ContractLookup) (*domain.Contract, error) {
	ctx, span := tracer.Start(ctx, "Supabase.FindContract")
	defer span.End()

	var path string
	switch {
	case q.ContractID != "":
		span.SetAttributes(attribute.String("contract.id", q.ContractID))
		path = fmt.Sprintf("contracts?select=*&id=%s&limit=1", eq(q.ContractID))
	case q.OrderID != "":
		span.SetAttributes(attribute.String("order.id", q.OrderID))
		path = fmt.Sprintf("contracts?select=*&order_id=%s&order=created_at.desc&limit=1", eq(q.OrderID))
	default:
		return nil, nil
	}

	var contract *domain.Contract
	err := c.read(ctx, "supabase/contracts", func() error {
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		contract, err = decodeFirst[domain.Contract](body, "contracts")
		return err
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}
