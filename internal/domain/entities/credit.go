package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditReason descreve a origem de um lançamento de créditos
type CreditReason string

const (
	CreditGrant  CreditReason = "grant"
	CreditSpend  CreditReason = "spend"
	CreditRefund CreditReason = "refund"
)

// CreditTransaction é um lançamento no extrato de créditos.
// Valores positivos creditam, negativos debitam.
type CreditTransaction struct {
	ID        string
	UserID    string
	Amount    decimal.Decimal
	Reason    CreditReason
	Note      string
	OrderID   *string
	CreatedAt time.Time
}
