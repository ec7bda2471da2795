package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/rafabene/marketplace-backend/internal/domain/ports"
)

const orderIDMetadata = "order_id"

// OmiseGateway implementa ports.PaymentGateway sobre a API da Omise
type OmiseGateway struct {
	client *omise.Client
}

// NewOmiseGateway cria o cliente Omise a partir das chaves configuradas
func NewOmiseGateway(publicKey, secretKey string) (*OmiseGateway, error) {
	client, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	return &OmiseGateway{client: client}, nil
}

func (g *OmiseGateway) CreateCharge(ctx context.Context, req ports.ChargeRequest) (*ports.Charge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	op := &operations.CreateCharge{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Card:        req.CardToken,
		Source:      req.SourceID,
		Description: req.Description,
		ReturnURI:   req.ReturnURI,
		Metadata: map[string]interface{}{
			orderIDMetadata: req.OrderID,
			"order_number":  req.OrderNumber,
		},
	}

	charge := &omise.Charge{}
	if err := g.client.Do(charge, op); err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}
	return toCharge(charge), nil
}

func (g *OmiseGateway) RetrieveCharge(ctx context.Context, chargeID string) (*ports.Charge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	charge := &omise.Charge{}
	if err := g.client.Do(charge, &operations.RetrieveCharge{ChargeID: chargeID}); err != nil {
		return nil, fmt.Errorf("retrieve charge: %w", err)
	}
	return toCharge(charge), nil
}

// RetrieveEvent busca o evento na Omise; o corpo do webhook nunca é confiável
func (g *OmiseGateway) RetrieveEvent(ctx context.Context, eventID string) (*ports.PaymentEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ev := &omise.Event{}
	if err := g.client.Do(ev, &operations.RetrieveEvent{EventID: eventID}); err != nil {
		return nil, fmt.Errorf("retrieve event: %w", err)
	}

	result := &ports.PaymentEvent{ID: ev.ID, Key: ev.Key}
	if ev.Data == nil {
		return result, nil
	}

	// ev.Data é genérico; só interessa quando o objeto é uma charge
	raw, err := json.Marshal(ev.Data)
	if err != nil {
		return result, nil
	}
	var charge omise.Charge
	if err := json.Unmarshal(raw, &charge); err == nil && charge.Object == "charge" {
		result.Charge = toCharge(&charge)
	}
	return result, nil
}

func toCharge(ch *omise.Charge) *ports.Charge {
	c := &ports.Charge{
		ID:           ch.ID,
		Amount:       ch.Amount,
		Currency:     ch.Currency,
		AuthorizeURI: ch.AuthorizeURI,
	}

	switch string(ch.Status) {
	case "successful":
		c.Status = ports.ChargeSuccessful
	case "failed", "expired", "reversed":
		c.Status = ports.ChargeFailed
	default:
		c.Status = ports.ChargePending
	}

	if ch.FailureCode != nil {
		c.FailureCode = *ch.FailureCode
	}
	if ch.FailureMessage != nil {
		c.FailureMessage = *ch.FailureMessage
	}
	if id, ok := ch.Metadata[orderIDMetadata].(string); ok {
		c.OrderID = id
	}
	return c
}
