package valueobjects

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrNegativeAmount  = errors.New("amount must not be negative")
)

// zeroDecimalCurrencies não possuem subunidade (o valor já está na menor unidade)
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
}

// Money é um value object para valores monetários com moeda ISO 4217
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney cria um Money validado, arredondado para duas casas
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: amount.Round(2), currency: currency}, nil
}

// Amount retorna o valor decimal
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency retorna o código da moeda
func (m Money) Currency() string {
	return m.currency
}

// MinorUnits converte para a menor unidade da moeda (centavos, satang...)
// exigida pelos gateways de pagamento
func (m Money) MinorUnits() int64 {
	return ToMinorUnits(m.amount, m.currency)
}

// ToMinorUnits converte um valor decimal para a menor unidade da moeda
func ToMinorUnits(amount decimal.Decimal, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return amount.Round(0).IntPart()
	}
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits faz a conversão inversa de ToMinorUnits
func FromMinorUnits(units int64, currency string) decimal.Decimal {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return decimal.NewFromInt(units)
	}
	return decimal.New(units, -2)
}
