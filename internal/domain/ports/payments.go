package ports

import "context"

// ChargeStatus espelha os estados de cobrança do gateway
type ChargeStatus string

const (
	ChargePending    ChargeStatus = "pending"
	ChargeSuccessful ChargeStatus = "successful"
	ChargeFailed     ChargeStatus = "failed"
)

// ChargeRequest representa a criação de uma cobrança no gateway.
// Amount está na menor unidade da moeda.
type ChargeRequest struct {
	OrderID     string
	OrderNumber string
	Amount      int64
	Currency    string
	CardToken   string
	SourceID    string
	ReturnURI   string
	Description string
}

// Charge é o resultado de uma cobrança
type Charge struct {
	ID             string
	Status         ChargeStatus
	Amount         int64
	Currency       string
	AuthorizeURI   string
	FailureCode    string
	FailureMessage string
	OrderID        string
}

// PaymentEvent é um evento do gateway já verificado
type PaymentEvent struct {
	ID     string
	Key    string
	Charge *Charge
}

// PaymentGateway abstrai o processamento de pagamentos (delegado a terceiros)
type PaymentGateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
	RetrieveCharge(ctx context.Context, chargeID string) (*Charge, error)
	// RetrieveEvent busca o evento diretamente no gateway; o corpo do webhook nunca é confiável
	RetrieveEvent(ctx context.Context, eventID string) (*PaymentEvent, error)
}
