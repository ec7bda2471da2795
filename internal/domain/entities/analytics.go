package entities

import "github.com/shopspring/decimal"

// Dashboard é o resumo exibido no painel administrativo
type Dashboard struct {
	Users         int64
	Products      int64
	Jobs          int64
	Events        int64
	OrdersByState map[OrderStatus]int64
	Revenue       decimal.Decimal
	TopProducts   []TopProduct
	Signups       []DailyCount
}

// TopProduct é um produto ranqueado por unidades vendidas
type TopProduct struct {
	ProductID string
	Title     string
	UnitsSold int64
	Revenue   decimal.Decimal
}

// DailyCount é uma contagem por dia (YYYY-MM-DD)
type DailyCount struct {
	Day   string
	Count int64
}
